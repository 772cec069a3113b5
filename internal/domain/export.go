package domain

// BookingExportRow is a single row in the flat booking export used for
// operational reporting. It is denormalized: resource names are repeated on
// every row so the file is useful without joins.
//
// DriverName is empty when the customer self-drives.
type BookingExportRow struct {
	BookingID  string
	Status     string
	CarName    string
	DriverName string
	UserID     string
	PickupAt   string // RFC3339, UTC
	ReturnAt   string // RFC3339, UTC
	TotalPrice int64
	CreatedAt  string // RFC3339, UTC
}
