package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// ExportService assembles a flat, denormalized export of all bookings with
// their resource names, for operational reporting.
type ExportService struct {
	bookings repo.BookingRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(bookings repo.BookingRepo) *ExportService {
	return &ExportService{bookings: bookings}
}

// Export returns one row per booking, ordered by creation time.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	joined, err := s.bookings.ListWithNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.BookingExportRow, 0, len(joined))
	for _, j := range joined {
		rows = append(rows, domain.BookingExportRow{
			BookingID:  j.Booking.ID.String(),
			Status:     string(j.Booking.Status),
			CarName:    j.CarName,
			DriverName: j.DriverName,
			UserID:     j.Booking.UserID.String(),
			PickupAt:   j.Booking.PickupAt.UTC().Format(time.RFC3339),
			ReturnAt:   j.Booking.ReturnAt.UTC().Format(time.RFC3339),
			TotalPrice: j.Booking.TotalPrice,
			CreatedAt:  j.Booking.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}
