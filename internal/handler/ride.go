package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// RideHandler handles HTTP requests for the ride lifecycle.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	UserID        string  `json:"user_id"`
	VehicleTypeID string  `json:"vehicle_type_id"`
	CityID        string  `json:"city_id,omitempty"`
	CityCode      string  `json:"city_code,omitempty"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	PickupAddress string  `json:"pickup_address,omitempty"`
	DropLat       float64 `json:"drop_lat"`
	DropLng       float64 `json:"drop_lng"`
	DropAddress   string  `json:"drop_address,omitempty"`
	DistanceKm    float64 `json:"distance_km"`

	ScheduledAt string `json:"scheduled_at,omitempty"` // RFC 3339
	RideType    string `json:"ride_type,omitempty"`    // LOCAL, RENTAL, OUTSTATION
	PaymentMode string `json:"payment_mode,omitempty"` // CASH, CARD, WALLET, UPI

	IsManualBooking bool   `json:"is_manual_booking,omitempty"`
	AgentID         string `json:"agent_id,omitempty"`
	AgentCode       string `json:"agent_code,omitempty"`
	CorporateID     string `json:"corporate_id,omitempty"`
	VendorID        string `json:"vendor_id,omitempty"`
	BookingNotes    string `json:"booking_notes,omitempty"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason,omitempty"`
}

// TransitionRequest is the HTTP request body for partner-driven transitions.
type TransitionRequest struct {
	PartnerID string `json:"partner_id"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	PartnerID string `json:"partner_id"`
	OTP       string `json:"otp"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID            string `json:"id"`
	CustomID      string `json:"custom_id"`
	UserID        string `json:"user_id"`
	PartnerID     string `json:"partner_id,omitempty"`
	VehicleTypeID string `json:"vehicle_type_id"`
	VehicleID     string `json:"vehicle_id,omitempty"`
	VendorID      string `json:"vendor_id,omitempty"`
	AgentID       string `json:"agent_id,omitempty"`
	CorporateID   string `json:"corporate_id,omitempty"`

	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	PickupAddress string  `json:"pickup_address,omitempty"`
	DropLat       float64 `json:"drop_lat"`
	DropLng       float64 `json:"drop_lng"`
	DropAddress   string  `json:"drop_address,omitempty"`
	DistanceKm    float64 `json:"distance_km"`

	BaseFare      float64 `json:"base_fare"`
	PerKmPrice    float64 `json:"per_km_price"`
	TotalFare     float64 `json:"total_fare"`
	RiderEarnings float64 `json:"rider_earnings"`
	Commission    float64 `json:"commission"`

	Status       string `json:"status"`
	RideType     string `json:"ride_type"`
	PaymentMode  string `json:"payment_mode"`
	ScheduledAt  string `json:"scheduled_at,omitempty"`
	AcceptedAt   string `json:"accepted_at,omitempty"`
	ArrivedAt    string `json:"arrived_at,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	CancelledAt  string `json:"cancelled_at,omitempty"`
	CancelReason string `json:"cancel_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:            r.ID,
		CustomID:      r.CustomID,
		UserID:        r.UserID,
		PartnerID:     r.PartnerID,
		VehicleTypeID: r.VehicleTypeID,
		VehicleID:     r.VehicleID,
		VendorID:      r.VendorID,
		AgentID:       r.AgentID,
		CorporateID:   r.CorporateID,

		PickupLat:     r.PickupLat,
		PickupLng:     r.PickupLng,
		PickupAddress: r.PickupAddress,
		DropLat:       r.DropLat,
		DropLng:       r.DropLng,
		DropAddress:   r.DropAddress,
		DistanceKm:    r.DistanceKm,

		BaseFare:      r.BaseFare,
		PerKmPrice:    r.PerKmPrice,
		TotalFare:     r.TotalFare,
		RiderEarnings: r.RiderEarnings,
		Commission:    r.Commission,

		Status:       string(r.Status),
		RideType:     string(r.RideType),
		PaymentMode:  string(r.PaymentMode),
		ScheduledAt:  formatTime(r.ScheduledAt),
		AcceptedAt:   formatTime(r.AcceptedAt),
		ArrivedAt:    formatTime(r.ArrivedAt),
		StartTime:    formatTime(r.StartTime),
		EndTime:      formatTime(r.EndTime),
		CancelledAt:  formatTime(r.CancelledAt),
		CancelReason: r.CancelReason,
		CreatedAt:    formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	paymentMode, err := service.ValidatePaymentMode(req.PaymentMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var scheduledAt time.Time
	if req.ScheduledAt != "" {
		scheduledAt, err = time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "scheduled_at must be RFC 3339"})
			return
		}
	}

	ride, err := h.rideService.Create(c.Request.Context(), service.CreateRideRequest{
		UserID:        req.UserID,
		VehicleTypeID: req.VehicleTypeID,
		CityID:        req.CityID,
		CityCode:      req.CityCode,
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		PickupAddress: req.PickupAddress,
		DropLat:       req.DropLat,
		DropLng:       req.DropLng,
		DropAddress:   req.DropAddress,
		DistanceKm:    req.DistanceKm,

		ScheduledAt: scheduledAt,
		RideType:    domain.RideType(req.RideType),
		PaymentMode: paymentMode,

		IsManualBooking: req.IsManualBooking,
		AgentID:         req.AgentID,
		AgentCode:       req.AgentCode,
		CorporateID:     req.CorporateID,
		VendorID:        req.VendorID,
		BookingNotes:    req.BookingNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID := c.Param("id")
	requesterID := c.Query("requester_id")

	ride, err := h.rideService.Get(c.Request.Context(), rideID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	rideID := c.Param("id")

	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Cancel(c.Request.Context(), service.CancelRideRequest{
		RideID:      rideID,
		CancelledBy: req.CancelledBy,
		Reason:      req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	rideID := c.Param("id")

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Accept(c.Request.Context(), rideID, req.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// MarkArrived handles POST /v1/rides/:id/arrived
func (h *RideHandler) MarkArrived(c *gin.Context) {
	rideID := c.Param("id")

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.MarkArrived(c.Request.Context(), rideID, req.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	rideID := c.Param("id")

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Start(c.Request.Context(), rideID, req.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	rideID := c.Param("id")

	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Complete(c.Request.Context(), rideID, req.PartnerID, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
