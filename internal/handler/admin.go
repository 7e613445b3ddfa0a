package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// AdminHandler handles administrative operations: manual assignment,
// status overrides, pricing configuration, and OTP regeneration.
type AdminHandler struct {
	rideService    *service.RideService
	pricingService *service.PricingService
	userService    *service.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	rideService *service.RideService,
	pricingService *service.PricingService,
	userService *service.UserService,
) *AdminHandler {
	return &AdminHandler{
		rideService:    rideService,
		pricingService: pricingService,
		userService:    userService,
	}
}

// AssignRideRequest is the HTTP request body for direct assignment.
type AssignRideRequest struct {
	PartnerID string `json:"partner_id"`
}

// OverrideStatusRequest is the HTTP request body for a status override.
type OverrideStatusRequest struct {
	Status string `json:"status"`
	OTP    string `json:"otp,omitempty"`
}

// PricingConfigRequest is the HTTP request body for replacing the global
// fare split.
type PricingConfigRequest struct {
	BaseFare        float64 `json:"base_fare"`
	RiderPercentage float64 `json:"rider_percentage"`
	AppCommission   float64 `json:"app_commission"`
}

// PricingConfigResponse is the HTTP representation of the active split.
type PricingConfigResponse struct {
	ID              string  `json:"id"`
	BaseFare        float64 `json:"base_fare"`
	RiderPercentage float64 `json:"rider_percentage"`
	AppCommission   float64 `json:"app_commission"`
	IsActive        bool    `json:"is_active"`
	CreatedAt       string  `json:"created_at"`
}

func toPricingConfigResponse(cfg *domain.PricingConfig) PricingConfigResponse {
	return PricingConfigResponse{
		ID:              cfg.ID,
		BaseFare:        cfg.BaseFare,
		RiderPercentage: cfg.RiderPercentage,
		AppCommission:   cfg.AppCommission,
		IsActive:        cfg.IsActive,
		CreatedAt:       formatTime(cfg.CreatedAt),
	}
}

// CityPricingRequest is the HTTP request body for a city override.
type CityPricingRequest struct {
	CityID         string  `json:"city_id"`
	VehicleTypeID  string  `json:"vehicle_type_id"`
	BaseKm         float64 `json:"base_km"`
	BaseFare       float64 `json:"base_fare"`
	PerKmAfterBase float64 `json:"per_km_after_base"`
}

// AssignRide handles POST /v1/admin/rides/:id/assign
func (h *AdminHandler) AssignRide(c *gin.Context) {
	rideID := c.Param("id")

	var req AssignRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.DirectAssign(c.Request.Context(), rideID, req.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// OverrideStatus handles POST /v1/admin/rides/:id/status
func (h *AdminHandler) OverrideStatus(c *gin.Context) {
	rideID := c.Param("id")

	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.OverrideStatus(
		c.Request.Context(), rideID, domain.RideStatus(req.Status), req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetPricing handles GET /v1/admin/pricing
func (h *AdminHandler) GetPricing(c *gin.Context) {
	cfg, err := h.pricingService.ActiveConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPricingConfigResponse(cfg))
}

// UpdatePricing handles PUT /v1/admin/pricing
func (h *AdminHandler) UpdatePricing(c *gin.Context) {
	var req PricingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	cfg, err := h.pricingService.UpdateConfig(c.Request.Context(), service.UpdateConfigRequest{
		BaseFare:        req.BaseFare,
		RiderPercentage: req.RiderPercentage,
		AppCommission:   req.AppCommission,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPricingConfigResponse(cfg))
}

// UpsertCityPricing handles PUT /v1/admin/pricing/city
func (h *AdminHandler) UpsertCityPricing(c *gin.Context) {
	var req CityPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	cp, err := h.pricingService.UpsertCityPricing(c.Request.Context(), service.UpsertCityPricingRequest{
		CityID:         req.CityID,
		VehicleTypeID:  req.VehicleTypeID,
		BaseKm:         req.BaseKm,
		BaseFare:       req.BaseFare,
		PerKmAfterBase: req.PerKmAfterBase,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"id":                cp.ID,
		"city_id":           cp.CityID,
		"vehicle_type_id":   cp.VehicleTypeID,
		"base_km":           cp.BaseKm,
		"base_fare":         cp.BaseFare,
		"per_km_after_base": cp.PerKmAfterBase,
	})
}

// RegenerateOTP handles POST /v1/admin/users/:id/otp
func (h *AdminHandler) RegenerateOTP(c *gin.Context) {
	otp, err := h.userService.RegenerateOTP(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"otp": otp})
}
