package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userService *service.UserService
	rideService *service.RideService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, rideService *service.RideService) *UserHandler {
	return &UserHandler{
		userService: userService,
		rideService: rideService,
	}
}

// RegisterUserRequest is the HTTP request body for registering a user.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UserResponse is the HTTP representation of a user. The standing OTP is
// returned only to the user themselves, at registration.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	OTP   string `json:"otp,omitempty"`
}

// Register handles POST /v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
		OTP:   user.UniqueOTP,
	})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
	})
}

// ListRides handles GET /v1/users/:id/rides
func (h *UserHandler) ListRides(c *gin.Context) {
	rides, err := h.rideService.ListByUser(
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
