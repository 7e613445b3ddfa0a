package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ridemarket/internal/domain"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
)

// PartnerService handles partner presence and registration.
type PartnerService struct {
	partnerRepo   repository.PartnerRepository
	locationStore redis.LocationStoreInterface
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(partnerRepo repository.PartnerRepository, locationStore redis.LocationStoreInterface) *PartnerService {
	return &PartnerService{
		partnerRepo:   partnerRepo,
		locationStore: locationStore,
	}
}

// RegisterPartnerRequest contains the parameters for registering a partner.
type RegisterPartnerRequest struct {
	Name      string
	Phone     string
	VendorID  string
	VehicleID string
}

// Register creates a new partner, initially offline.
func (s *PartnerService) Register(ctx context.Context, req RegisterPartnerRequest) (*domain.Partner, error) {
	partner := &domain.Partner{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		VendorID:  req.VendorID,
		VehicleID: req.VehicleID,
		CreatedAt: time.Now(),
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}

	return partner, nil
}

// UpdateLocation records a location ping: Redis geo index first, then the
// persisted row. The ping also marks the partner online.
func (s *PartnerService) UpdateLocation(ctx context.Context, partnerID string, lat, lng float64) error {
	if partnerID == "" {
		return ErrInvalidPartnerID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidPickupLocation
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateLocation(ctx, partnerID, lat, lng); err != nil {
			return err
		}
	}

	return s.partnerRepo.UpdateLocation(ctx, partnerID, lat, lng)
}

// GoOffline removes the partner from discovery.
func (s *PartnerService) GoOffline(ctx context.Context, partnerID string) error {
	if partnerID == "" {
		return ErrInvalidPartnerID
	}

	if err := s.partnerRepo.SetOnline(ctx, partnerID, false); err != nil {
		return err
	}

	if s.locationStore != nil {
		_ = s.locationStore.RemoveLocation(ctx, partnerID)
	}

	return nil
}

// Get retrieves a partner by ID.
func (s *PartnerService) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}
	return s.partnerRepo.GetByID(ctx, partnerID)
}
