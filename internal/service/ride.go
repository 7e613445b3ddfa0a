package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ridemarket/internal/domain"
	"ridemarket/internal/fare"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
)

const (
	rideEntityType = "ride"
	acceptLockTTL  = 10 * time.Second
)

// FareQuoter computes the fare breakdown frozen onto a ride at creation.
// This interface allows for testing with mock implementations.
type FareQuoter interface {
	Quote(ctx context.Context, vehicleTypeID, cityID string, distanceKm float64) (fare.Breakdown, error)
}

// Ensure FareService implements FareQuoter.
var _ FareQuoter = (*FareService)(nil)

// RideService is the ride lifecycle engine. Every transition validates
// the stored status through a conditional update, and emits exactly one
// notification after the write commits.
type RideService struct {
	rideRepo       repository.RideRepository
	partnerRepo    repository.PartnerRepository
	userRepo       repository.UserRepository
	vehicleRepo    repository.VehicleRepository
	settlementRepo repository.SettlementRepository
	fareQuoter     FareQuoter
	idGen          repository.CustomIDGenerator
	lockStore      redis.LockStoreInterface
	notifier       Notifier
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	partnerRepo repository.PartnerRepository,
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	settlementRepo repository.SettlementRepository,
	fareQuoter FareQuoter,
	idGen repository.CustomIDGenerator,
	lockStore redis.LockStoreInterface,
	notifier Notifier,
) *RideService {
	return &RideService{
		rideRepo:       rideRepo,
		partnerRepo:    partnerRepo,
		userRepo:       userRepo,
		vehicleRepo:    vehicleRepo,
		settlementRepo: settlementRepo,
		fareQuoter:     fareQuoter,
		idGen:          idGen,
		lockStore:      lockStore,
		notifier:       notifier,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	UserID        string
	VehicleTypeID string
	CityID        string
	CityCode      string

	PickupLat     float64
	PickupLng     float64
	PickupAddress string
	DropLat       float64
	DropLng       float64
	DropAddress   string
	DistanceKm    float64

	ScheduledAt time.Time // zero for instant bookings
	RideType    domain.RideType
	PaymentMode domain.PaymentMode

	IsManualBooking bool
	AgentID         string
	AgentCode       string
	CorporateID     string
	VendorID        string
	BookingNotes    string
}

// Create books a new ride. Instant bookings start PENDING_ASSIGNMENT;
// future-dated bookings start SCHEDULED. The fare is computed here, once,
// and frozen onto the record.
func (s *RideService) Create(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	// The user must exist; their standing OTP is the completion credential.
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	breakdown, err := s.fareQuoter.Quote(ctx, req.VehicleTypeID, req.CityID, req.DistanceKm)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := domain.RideStatusPendingAssignment
	if !req.ScheduledAt.IsZero() {
		if !req.ScheduledAt.After(now) {
			return nil, ErrScheduleNotFuture
		}
		status = domain.RideStatusScheduled
	}

	cityCode := req.CityCode
	if cityCode == "" {
		cityCode = "CTY"
	}
	customID, err := s.idGen.Next(ctx, cityCode, rideEntityType)
	if err != nil {
		return nil, err
	}

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = domain.PaymentModeCash
	}
	rideType := req.RideType
	if rideType == "" {
		rideType = domain.RideTypeLocal
	}

	ride := &domain.Ride{
		ID:            uuid.New().String(),
		CustomID:      customID,
		UserID:        req.UserID,
		VehicleTypeID: req.VehicleTypeID,
		AgentID:       req.AgentID,
		AgentCode:     req.AgentCode,
		CorporateID:   req.CorporateID,
		VendorID:      req.VendorID,

		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		PickupAddress: req.PickupAddress,
		DropLat:       req.DropLat,
		DropLng:       req.DropLng,
		DropAddress:   req.DropAddress,
		DistanceKm:    req.DistanceKm,

		BaseFare:      breakdown.BaseFare,
		PerKmPrice:    breakdown.PerKmPrice,
		TotalFare:     breakdown.TotalFare,
		RiderEarnings: breakdown.RiderEarnings,
		Commission:    breakdown.Commission,

		Status:      status,
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   now,

		IsManualBooking: req.IsManualBooking,
		RideType:        rideType,
		PaymentMode:     paymentMode,
		BookingNotes:    req.BookingNotes,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.notify(ctx, RideEventCreated, ride)

	return ride, nil
}

// Get retrieves a ride. A non-empty requesterID must match one of the
// ride's parties; an empty requesterID is an administrative read.
func (s *RideService) Get(ctx context.Context, rideID, requesterID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if requesterID != "" &&
		requesterID != ride.UserID &&
		requesterID != ride.PartnerID &&
		requesterID != ride.AgentID &&
		requesterID != ride.VendorID {
		return nil, ErrNotRideOwner
	}

	return ride, nil
}

// ListByUser retrieves a user's rides, optionally filtered by status.
func (s *RideService) ListByUser(ctx context.Context, userID string, status domain.RideStatus) ([]*domain.Ride, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.rideRepo.List(ctx, repository.RideFilter{UserID: userID, Status: status})
}

// ListByPartner retrieves a partner's rides, optionally filtered by status.
func (s *RideService) ListByPartner(ctx context.Context, partnerID string, status domain.RideStatus) ([]*domain.Ride, error) {
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}
	return s.rideRepo.List(ctx, repository.RideFilter{PartnerID: partnerID, Status: status})
}

// ListAll retrieves recent rides for administrative views.
func (s *RideService) ListAll(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.List(ctx, repository.RideFilter{})
}

// Accept is the self-service acceptance path: an online partner claims a
// discovered ride. The conditional update guarantees at most one
// concurrent acceptance succeeds.
func (s *RideService) Accept(ctx context.Context, rideID, partnerID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}

	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsOnline {
		return nil, ErrPartnerOffline
	}

	// The accept lock shortcuts contention between racing partners; the
	// conditional update below remains the correctness guarantee.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, rideID, acceptLockTTL)
		if err == nil && !locked {
			return nil, ErrRideAlreadyAssigned
		}
		if err == nil {
			defer func() { _ = s.lockStore.ReleaseRideLock(ctx, rideID) }()
		}
	}

	return s.bindPartner(ctx, rideID, partner)
}

// DirectAssign is the administrative path: an admin or agent binds a
// specific partner to an unassigned ride.
func (s *RideService) DirectAssign(ctx context.Context, rideID, partnerID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}

	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	return s.bindPartner(ctx, rideID, partner)
}

// bindPartner performs the assignment transition, propagating the
// partner's vehicle and that vehicle's vendor onto the ride.
func (s *RideService) bindPartner(ctx context.Context, rideID string, partner *domain.Partner) (*domain.Ride, error) {
	vehicleID := partner.VehicleID
	vendorID := partner.VendorID
	if vehicleID != "" && s.vehicleRepo != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
		if err == nil && vehicle.VendorID != "" {
			vendorID = vehicle.VendorID
		}
	}

	err := s.rideRepo.AssignPartner(ctx, rideID, partner.ID, vehicleID, vendorID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, s.classifyAssignFailure(ctx, rideID)
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, RideEventAssigned, ride)

	return ride, nil
}

// classifyAssignFailure distinguishes why the conditional assign matched
// no row.
func (s *RideService) classifyAssignFailure(ctx context.Context, rideID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.PartnerID != "" {
		return ErrRideAlreadyAssigned
	}
	return ErrRideNotAssignable
}

// MarkArrived records that the bound partner reached the pickup point.
func (s *RideService) MarkArrived(ctx context.Context, rideID, partnerID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}

	err := s.rideRepo.MarkArrived(ctx, rideID, partnerID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, s.classifyTransitionFailure(ctx, rideID, partnerID, ErrRideNotAssigned)
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, RideEventArrived, ride)

	return ride, nil
}

// Start records trip start by the bound partner.
func (s *RideService) Start(ctx context.Context, rideID, partnerID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if partnerID == "" {
		return nil, ErrInvalidPartnerID
	}

	err := s.rideRepo.Start(ctx, rideID, partnerID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, s.classifyTransitionFailure(ctx, rideID, partnerID, ErrRideNotArrived)
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, RideEventStarted, ride)

	return ride, nil
}

// Complete finishes a STARTED ride. The caller must present an OTP equal
// to the user's standing OTP; on success the status write and the partner
// earnings credit commit in one transaction.
func (s *RideService) Complete(ctx context.Context, rideID, actorID, otp string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if otp == "" {
		return nil, ErrMissingOTP
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	// An empty actor is an administrative completion.
	if actorID != "" && actorID != ride.PartnerID {
		return nil, ErrPartnerNotBound
	}

	switch ride.Status {
	case domain.RideStatusCompleted:
		return nil, ErrRideAlreadyCompleted
	case domain.RideStatusStarted:
		// Completable.
	default:
		return nil, ErrRideNotStarted
	}

	user, err := s.userRepo.GetByID(ctx, ride.UserID)
	if err != nil {
		return nil, err
	}
	if otp != user.UniqueOTP {
		return nil, ErrInvalidOTP
	}

	completed, err := s.settlementRepo.CompleteAndCredit(ctx, rideID, otp, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			// A concurrent writer got there first; re-read to classify.
			current, getErr := s.rideRepo.GetByID(ctx, rideID)
			if getErr != nil {
				return nil, getErr
			}
			if current.Status == domain.RideStatusCompleted {
				return nil, ErrRideAlreadyCompleted
			}
			return nil, ErrRideNotStarted
		}
		return nil, err
	}

	s.notify(ctx, RideEventCompleted, completed)

	return completed, nil
}

// CancelRideRequest contains the parameters for cancelling a ride.
type CancelRideRequest struct {
	RideID      string
	CancelledBy string // empty for administrative cancellation
	Reason      string
}

// Cancel transitions any non-terminal ride to CANCELLED. The owning user,
// the managing agent, or the vendor may cancel; repeat cancellation is
// rejected.
func (s *RideService) Cancel(ctx context.Context, req CancelRideRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if req.CancelledBy != "" &&
		req.CancelledBy != ride.UserID &&
		req.CancelledBy != ride.AgentID &&
		req.CancelledBy != ride.VendorID {
		return nil, ErrNotRideOwner
	}

	switch ride.Status {
	case domain.RideStatusCancelled:
		return nil, ErrRideAlreadyCancelled
	case domain.RideStatusCompleted:
		return nil, ErrRideCannotBeCancelled
	}

	err = s.rideRepo.Cancel(ctx, req.RideID, req.Reason, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			// Lost a race against another terminal transition.
			current, getErr := s.rideRepo.GetByID(ctx, req.RideID)
			if getErr != nil {
				return nil, getErr
			}
			if current.Status == domain.RideStatusCancelled {
				return nil, ErrRideAlreadyCancelled
			}
			return nil, ErrRideCannotBeCancelled
		}
		return nil, err
	}

	cancelled, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, RideEventCancelled, cancelled)

	return cancelled, nil
}

// OverrideStatus is the administrative status override. The start
// transition on this path additionally requires the user's standing OTP;
// completion always does.
func (s *RideService) OverrideStatus(ctx context.Context, rideID string, target domain.RideStatus, otp string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	switch target {
	case domain.RideStatusArrived:
		return s.MarkArrived(ctx, rideID, ride.PartnerID)

	case domain.RideStatusStarted:
		user, err := s.userRepo.GetByID(ctx, ride.UserID)
		if err != nil {
			return nil, err
		}
		if otp == "" || otp != user.UniqueOTP {
			return nil, ErrInvalidOTP
		}
		return s.Start(ctx, rideID, ride.PartnerID)

	case domain.RideStatusCompleted:
		return s.Complete(ctx, rideID, "", otp)

	default:
		return nil, ErrInvalidStatus
	}
}

// classifyTransitionFailure distinguishes why a partner-bound conditional
// transition matched no row.
func (s *RideService) classifyTransitionFailure(ctx context.Context, rideID, partnerID string, stateErr error) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.PartnerID != partnerID {
		return ErrPartnerNotBound
	}
	return stateErr
}

func (s *RideService) validateCreateRequest(req CreateRideRequest) error {
	if req.UserID == "" {
		return ErrInvalidUserID
	}
	if req.VehicleTypeID == "" {
		return ErrInvalidVehicleTypeID
	}
	if !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.DropLat) || !isValidLongitude(req.DropLng) {
		return ErrInvalidDropLocation
	}
	if req.DistanceKm < 0 {
		return ErrInvalidDistance
	}
	if req.PaymentMode != "" {
		if _, err := ValidatePaymentMode(string(req.PaymentMode)); err != nil {
			return err
		}
	}
	return nil
}

// notify emits a lifecycle event. Failures are swallowed: delivery never
// blocks or rolls back a committed transition.
func (s *RideService) notify(ctx context.Context, event RideEvent, ride *domain.Ride) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, event, ride)
}

// ValidatePaymentMode validates a payment mode string.
func ValidatePaymentMode(mode string) (domain.PaymentMode, error) {
	switch domain.PaymentMode(mode) {
	case domain.PaymentModeCash, domain.PaymentModeCard,
		domain.PaymentModeWallet, domain.PaymentModeUPI:
		return domain.PaymentMode(mode), nil
	case "":
		return domain.PaymentModeCash, nil // Default to cash
	default:
		return "", ErrInvalidPaymentMode
	}
}
