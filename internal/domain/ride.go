package domain

import "time"

// RideStatus represents the current status of a ride.
//
// This is the canonical vocabulary: every entry point (user self-booking,
// admin manual booking, agent manual booking) maps onto these values.
type RideStatus string

const (
	RideStatusPendingAssignment RideStatus = "PENDING_ASSIGNMENT"
	RideStatusScheduled         RideStatus = "SCHEDULED"
	RideStatusAssigned          RideStatus = "ASSIGNED"
	RideStatusArrived           RideStatus = "ARRIVED"
	RideStatusStarted           RideStatus = "STARTED"
	RideStatusCompleted         RideStatus = "COMPLETED"
	RideStatusCancelled         RideStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Assignable reports whether a partner may still be bound to the ride.
func (s RideStatus) Assignable() bool {
	return s == RideStatusPendingAssignment || s == RideStatusScheduled
}

// RideType classifies the booking.
type RideType string

const (
	RideTypeLocal      RideType = "LOCAL"
	RideTypeRental     RideType = "RENTAL"
	RideTypeOutstation RideType = "OUTSTATION"
)

// PaymentMode represents how the rider pays.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCard   PaymentMode = "CARD"
	PaymentModeWallet PaymentMode = "WALLET"
	PaymentModeUPI    PaymentMode = "UPI"
)

// Ride represents one transportation request from creation to terminal state.
// Geometry and money fields are frozen at creation; rides are never deleted.
type Ride struct {
	ID       string
	CustomID string // city-prefixed serial, assigned at creation

	UserID        string
	PartnerID     string // empty until assignment, set at most once
	VehicleTypeID string
	VehicleID     string
	VendorID      string
	AgentID       string
	AgentCode     string
	CorporateID   string

	PickupLat     float64
	PickupLng     float64
	PickupAddress string
	DropLat       float64
	DropLng       float64
	DropAddress   string
	DistanceKm    float64

	BaseFare      float64
	PerKmPrice    float64
	TotalFare     float64
	RiderEarnings float64
	Commission    float64

	Status       RideStatus
	AcceptedAt   time.Time
	ArrivedAt    time.Time
	StartTime    time.Time
	EndTime      time.Time
	ScheduledAt  time.Time // only for scheduled bookings
	CancelledAt  time.Time
	CancelReason string
	CreatedAt    time.Time

	// UserOTP is the copy of the user's standing OTP presented at
	// completion time, frozen onto the ride as completion proof.
	UserOTP string

	IsManualBooking bool
	RideType        RideType
	PaymentMode     PaymentMode
	BookingNotes    string
}
