package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// PartnerHandler handles HTTP requests for partners.
type PartnerHandler struct {
	partnerService  *service.PartnerService
	matchingService *service.MatchingService
	rideService     *service.RideService
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(
	partnerService *service.PartnerService,
	matchingService *service.MatchingService,
	rideService *service.RideService,
) *PartnerHandler {
	return &PartnerHandler{
		partnerService:  partnerService,
		matchingService: matchingService,
		rideService:     rideService,
	}
}

// RegisterPartnerRequest is the HTTP request body for registering a partner.
type RegisterPartnerRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	VendorID  string `json:"vendor_id,omitempty"`
	VehicleID string `json:"vehicle_id,omitempty"`
}

// PartnerResponse is the HTTP representation of a partner.
type PartnerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	VendorID      string  `json:"vendor_id,omitempty"`
	VehicleID     string  `json:"vehicle_id,omitempty"`
	IsOnline      bool    `json:"is_online"`
	CurrentLat    float64 `json:"current_lat"`
	CurrentLng    float64 `json:"current_lng"`
	TotalEarnings float64 `json:"total_earnings"`
}

func toPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Phone:         p.Phone,
		VendorID:      p.VendorID,
		VehicleID:     p.VehicleID,
		IsOnline:      p.IsOnline,
		CurrentLat:    p.CurrentLat,
		CurrentLng:    p.CurrentLng,
		TotalEarnings: p.TotalEarnings,
	}
}

// LocationUpdateRequest is the HTTP request body for a location ping.
type LocationUpdateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CandidateResponse is one discoverable ride with its pickup distance.
type CandidateResponse struct {
	Ride       RideResponse `json:"ride"`
	DistanceKm float64      `json:"distance_km"`
}

// Register handles POST /v1/partners
func (h *PartnerHandler) Register(c *gin.Context) {
	var req RegisterPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	partner, err := h.partnerService.Register(c.Request.Context(), service.RegisterPartnerRequest{
		Name:      req.Name,
		Phone:     req.Phone,
		VendorID:  req.VendorID,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPartnerResponse(partner))
}

// GetPartner handles GET /v1/partners/:id
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	partner, err := h.partnerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPartnerResponse(partner))
}

// UpdateLocation handles POST /v1/partners/:id/location
//
// A ping also marks the partner online and makes them discoverable.
func (h *PartnerHandler) UpdateLocation(c *gin.Context) {
	partnerID := c.Param("id")

	var req LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.partnerService.UpdateLocation(c.Request.Context(), partnerID, req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// GoOffline handles POST /v1/partners/:id/offline
func (h *PartnerHandler) GoOffline(c *gin.Context) {
	if err := h.partnerService.GoOffline(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// DiscoverRides handles GET /v1/partners/:id/available-rides
//
// Optional lat/lng query parameters override the partner's last known
// position; vehicle_type_id narrows the candidate pool.
func (h *PartnerHandler) DiscoverRides(c *gin.Context) {
	req := service.DiscoverRequest{
		PartnerID:     c.Param("id"),
		VehicleTypeID: c.Query("vehicle_type_id"),
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng must be numbers"})
			return
		}
		req.Lat, req.Lng, req.HasPosition = lat, lng, true
	}

	candidates, err := h.matchingService.Discover(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		response = append(response, CandidateResponse{
			Ride:       toRideResponse(cand.Ride),
			DistanceKm: cand.DistanceKm,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// ListRides handles GET /v1/partners/:id/rides
func (h *PartnerHandler) ListRides(c *gin.Context) {
	rides, err := h.rideService.ListByPartner(
		c.Request.Context(),
		c.Param("id"),
		domain.RideStatus(c.Query("status")),
	)
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
