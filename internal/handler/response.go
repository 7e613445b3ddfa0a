package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/repository"
	"ridemarket/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrVehicleTypeUnavailable):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidPartnerID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidVehicleTypeID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropLocation),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrScheduleNotFuture),
		errors.Is(err, service.ErrInvalidPaymentMode),
		errors.Is(err, service.ErrInvalidSplit),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrMissingOTP):
		return http.StatusBadRequest

	// Conflict errors: the ride exists but the transition is illegal, or
	// another actor got there first.
	case errors.Is(err, service.ErrRideNotAssignable),
		errors.Is(err, service.ErrRideNotAssigned),
		errors.Is(err, service.ErrRideNotArrived),
		errors.Is(err, service.ErrRideNotStarted),
		errors.Is(err, service.ErrRideCannotBeCancelled),
		errors.Is(err, service.ErrRideAlreadyAssigned),
		errors.Is(err, service.ErrRideAlreadyCancelled),
		errors.Is(err, service.ErrRideAlreadyCompleted),
		errors.Is(err, service.ErrPartnerOffline):
		return http.StatusConflict

	// Authentication: the presented completion code is wrong.
	case errors.Is(err, service.ErrInvalidOTP):
		return http.StatusUnauthorized

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotRideOwner),
		errors.Is(err, service.ErrPartnerNotBound):
		return http.StatusForbidden

	// Service unavailable
	case errors.Is(err, service.ErrNoActivePricing):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
