package handler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// exportCSVHeaders defines the column names written as the first row of any
// CSV export.
var exportCSVHeaders = []string{
	"booking_id", "status", "car_name", "driver_name", "user_id",
	"pickup_at", "return_at", "total_price", "created_at",
}

// handleExportBookings implements GET /bookings/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// writeCSV streams the export rows as text/csv.
func writeCSV(w http.ResponseWriter, rows []domain.BookingExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportCSVHeaders); err != nil {
		slog.Error("write csv header", "error", err)
		return
	}
	for _, row := range rows {
		record := []string{
			row.BookingID,
			row.Status,
			row.CarName,
			row.DriverName,
			row.UserID,
			row.PickupAt,
			row.ReturnAt,
			strconv.FormatInt(row.TotalPrice, 10),
			row.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			slog.Error("write csv record", "error", err)
			return
		}
	}
	cw.Flush()
}
