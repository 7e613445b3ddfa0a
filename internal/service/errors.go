package service

import "errors"

// Validation errors.
var (
	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidPartnerID is returned when the partner ID is empty.
	ErrInvalidPartnerID = errors.New("invalid partner id")

	// ErrInvalidRideID is returned when the ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidVehicleTypeID is returned when the vehicle type ID is empty.
	ErrInvalidVehicleTypeID = errors.New("invalid vehicle type id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropLocation is returned when drop coordinates are invalid.
	ErrInvalidDropLocation = errors.New("invalid drop location")

	// ErrInvalidDistance is returned when the ride distance is negative.
	ErrInvalidDistance = errors.New("invalid ride distance")

	// ErrScheduleNotFuture is returned when a scheduled booking is not
	// future-dated.
	ErrScheduleNotFuture = errors.New("scheduled time must be in the future")

	// ErrInvalidPaymentMode is returned when the payment mode is unknown.
	ErrInvalidPaymentMode = errors.New("invalid payment mode")

	// ErrInvalidSplit is returned when the fare split does not sum to 100.
	ErrInvalidSplit = errors.New("rider percentage and app commission must sum to 100")

	// ErrInvalidStatus is returned for an unsupported status override target.
	ErrInvalidStatus = errors.New("unsupported status transition target")

	// ErrMissingOTP is returned when completion is attempted without an OTP.
	ErrMissingOTP = errors.New("completion otp is required")
)

// Not-found / configuration errors.
var (
	// ErrVehicleTypeUnavailable is returned when the requested vehicle
	// type does not exist or is inactive.
	ErrVehicleTypeUnavailable = errors.New("vehicle type does not exist or is inactive")

	// ErrNoActivePricing is returned when no active pricing config exists.
	ErrNoActivePricing = errors.New("no active pricing configuration")
)

// State errors: the ride exists but is not in the required status.
var (
	// ErrRideNotAssignable is returned when the ride is past assignment.
	ErrRideNotAssignable = errors.New("ride not available for acceptance")

	// ErrRideNotAssigned is returned when arrival requires ASSIGNED status.
	ErrRideNotAssigned = errors.New("ride is not assigned")

	// ErrRideNotArrived is returned when starting requires ARRIVED status.
	ErrRideNotArrived = errors.New("ride has not arrived at pickup")

	// ErrRideNotStarted is returned when completion requires STARTED status.
	ErrRideNotStarted = errors.New("ride has not started")

	// ErrRideCannotBeCancelled is returned when cancelling a completed ride.
	ErrRideCannotBeCancelled = errors.New("ride cannot be cancelled in current state")

	// ErrPartnerOffline is returned when an offline partner tries to
	// discover or accept work.
	ErrPartnerOffline = errors.New("partner is offline")
)

// Conflict errors.
var (
	// ErrRideAlreadyAssigned is returned when a partner is already bound.
	ErrRideAlreadyAssigned = errors.New("ride already assigned")

	// ErrRideAlreadyCancelled is returned on a repeated cancellation.
	ErrRideAlreadyCancelled = errors.New("ride already cancelled")

	// ErrRideAlreadyCompleted is returned on a repeated completion.
	ErrRideAlreadyCompleted = errors.New("ride already completed")
)

// Authentication / authorization errors.
var (
	// ErrInvalidOTP is returned when the presented OTP does not match the
	// user's standing OTP.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrNotRideOwner is returned when the actor does not own or manage
	// the ride.
	ErrNotRideOwner = errors.New("actor does not own this ride")

	// ErrPartnerNotBound is returned when a partner acts on a ride bound
	// to someone else.
	ErrPartnerNotBound = errors.New("partner not assigned to this ride")
)

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
