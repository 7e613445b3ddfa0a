package domain

import "time"

// Partner represents a driver fulfilling rides, optionally tied to a
// vendor-owned vehicle.
type Partner struct {
	ID        string
	Name      string
	Phone     string
	VendorID  string
	VehicleID string // at most one active vehicle

	IsOnline   bool
	CurrentLat float64 // live position, overwritten on every ping
	CurrentLng float64

	// TotalEarnings is incremented only by settlement on ride completion.
	TotalEarnings float64

	CreatedAt time.Time
}

// Vehicle is a vendor-owned vehicle a partner drives.
type Vehicle struct {
	ID             string
	VendorID       string
	VehicleTypeID  string
	RegistrationNo string
	IsActive       bool
}
