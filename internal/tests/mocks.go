package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ridemarket/internal/domain"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
	"ridemarket/internal/service"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. State
// transitions mirror the conditional-update semantics of the real store:
// a transition whose precondition does not hold returns ErrNoTransition.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	AssignCallCount int32
	CancelCallCount int32

	// Error injection
	CreateError error
	AssignError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) List(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.PartnerID != "" && r.PartnerID != filter.PartnerID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) ListUnassigned(ctx context.Context, vehicleTypeID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		if r.PartnerID != "" || r.Status != domain.RideStatusPendingAssignment {
			continue
		}
		if vehicleTypeID != "" && r.VehicleTypeID != vehicleTypeID {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) AssignPartner(ctx context.Context, rideID, partnerID, vehicleID, vendorID string, at time.Time) error {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.PartnerID != "" || !ride.Status.Assignable() {
		return repository.ErrNoTransition
	}
	ride.PartnerID = partnerID
	ride.VehicleID = vehicleID
	ride.VendorID = vendorID
	ride.Status = domain.RideStatusAssigned
	ride.AcceptedAt = at
	return nil
}

func (m *MockRideRepository) MarkArrived(ctx context.Context, rideID, partnerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.PartnerID != partnerID || ride.Status != domain.RideStatusAssigned {
		return repository.ErrNoTransition
	}
	ride.Status = domain.RideStatusArrived
	ride.ArrivedAt = at
	return nil
}

func (m *MockRideRepository) Start(ctx context.Context, rideID, partnerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.PartnerID != partnerID || ride.Status != domain.RideStatusArrived {
		return repository.ErrNoTransition
	}
	ride.Status = domain.RideStatusStarted
	ride.StartTime = at
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID, reason string, at time.Time) error {
	atomic.AddInt32(&m.CancelCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.Status.Terminal() {
		return repository.ErrNoTransition
	}
	ride.Status = domain.RideStatusCancelled
	ride.CancelledAt = at
	ride.CancelReason = reason
	return nil
}

// ──────────────────────────────────────────────
// MOCK PARTNER REPOSITORY
// ──────────────────────────────────────────────

// MockPartnerRepository is a mock implementation of PartnerRepository.
type MockPartnerRepository struct {
	mu       sync.RWMutex
	partners map[string]*domain.Partner

	// Counters for verification
	IncrementEarningsCallCount int32

	// Error injection
	IncrementEarningsError error
}

// NewMockPartnerRepository creates a new mock partner repository.
func NewMockPartnerRepository() *MockPartnerRepository {
	return &MockPartnerRepository{
		partners: make(map[string]*domain.Partner),
	}
}

// AddPartner adds a partner to the mock repository.
func (m *MockPartnerRepository) AddPartner(partner *domain.Partner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partners[partner.ID] = partner
}

// GetPartner returns the stored partner for test assertions.
func (m *MockPartnerRepository) GetPartner(id string) *domain.Partner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.partners[id]
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partners[partner.ID] = partner
	return nil
}

func (m *MockPartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	partner, ok := m.partners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *partner
	return &copy, nil
}

func (m *MockPartnerRepository) GetAll(ctx context.Context) ([]*domain.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Partner, 0, len(m.partners))
	for _, p := range m.partners {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPartnerRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	partner, ok := m.partners[id]
	if !ok {
		return repository.ErrNotFound
	}
	partner.CurrentLat = lat
	partner.CurrentLng = lng
	partner.IsOnline = true
	return nil
}

func (m *MockPartnerRepository) SetOnline(ctx context.Context, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	partner, ok := m.partners[id]
	if !ok {
		return repository.ErrNotFound
	}
	partner.IsOnline = online
	return nil
}

func (m *MockPartnerRepository) IncrementEarnings(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.IncrementEarningsCallCount, 1)
	if m.IncrementEarningsError != nil {
		return m.IncrementEarningsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	partner, ok := m.partners[id]
	if !ok {
		return repository.ErrNotFound
	}
	partner.TotalEarnings += amount
	return nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) UpdateOTP(ctx context.Context, id, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.UniqueOTP = otp
	return nil
}

// ──────────────────────────────────────────────
// MOCK PRICING REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRepository is a mock implementation of PricingRepository.
// Config updates append to history, matching the real store's append-only
// behavior.
type MockPricingRepository struct {
	mu            sync.RWMutex
	vehicleTypes  map[string]*domain.VehicleType
	configHistory []*domain.PricingConfig
	cityPricing   map[string]*domain.CityPricing

	// Error injection
	ReplaceConfigError error
}

// NewMockPricingRepository creates a new mock pricing repository.
func NewMockPricingRepository() *MockPricingRepository {
	return &MockPricingRepository{
		vehicleTypes: make(map[string]*domain.VehicleType),
		cityPricing:  make(map[string]*domain.CityPricing),
	}
}

// AddVehicleType adds a vehicle type to the mock repository.
func (m *MockPricingRepository) AddVehicleType(vt *domain.VehicleType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicleTypes[vt.ID] = vt
}

// SetActiveConfig seeds the active global config.
func (m *MockPricingRepository) SetActiveConfig(cfg *domain.PricingConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configHistory {
		c.IsActive = false
	}
	cfg.IsActive = true
	m.configHistory = append(m.configHistory, cfg)
}

// ConfigHistoryLen reports how many config rows exist, active or not.
func (m *MockPricingRepository) ConfigHistoryLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configHistory)
}

func (m *MockPricingRepository) GetVehicleType(ctx context.Context, id string) (*domain.VehicleType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vt, ok := m.vehicleTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vt
	return &copy, nil
}

func (m *MockPricingRepository) GetActiveConfig(ctx context.Context) (*domain.PricingConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.configHistory {
		if c.IsActive {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPricingRepository) ReplaceActiveConfig(ctx context.Context, cfg *domain.PricingConfig) error {
	if m.ReplaceConfigError != nil {
		return m.ReplaceConfigError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configHistory {
		c.IsActive = false
	}
	cfg.IsActive = true
	m.configHistory = append(m.configHistory, cfg)
	return nil
}

func cityPricingKey(cityID, vehicleTypeID string) string {
	return cityID + ":" + vehicleTypeID
}

func (m *MockPricingRepository) GetCityPricing(ctx context.Context, cityID, vehicleTypeID string) (*domain.CityPricing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.cityPricing[cityPricingKey(cityID, vehicleTypeID)]
	if !ok {
		return nil, nil
	}
	copy := *cp
	return &copy, nil
}

func (m *MockPricingRepository) UpsertCityPricing(ctx context.Context, cp *domain.CityPricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cityPricing[cityPricingKey(cp.CityID, cp.VehicleTypeID)] = cp
	return nil
}

// ──────────────────────────────────────────────
// MOCK SETTLEMENT REPOSITORY
// ──────────────────────────────────────────────

// MockSettlementRepository emulates the transactional completion: the
// status write and the earnings credit happen under one lock, or not at
// all.
type MockSettlementRepository struct {
	rideRepo    *MockRideRepository
	partnerRepo *MockPartnerRepository

	// Counters for verification
	CompleteCallCount int32

	// Error injection
	CompleteError error
}

// NewMockSettlementRepository creates a new mock settlement repository
// over the given ride and partner mocks.
func NewMockSettlementRepository(rideRepo *MockRideRepository, partnerRepo *MockPartnerRepository) *MockSettlementRepository {
	return &MockSettlementRepository{
		rideRepo:    rideRepo,
		partnerRepo: partnerRepo,
	}
}

func (m *MockSettlementRepository) CompleteAndCredit(ctx context.Context, rideID, presentedOTP string, endedAt time.Time) (*domain.Ride, error) {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	if m.CompleteError != nil {
		return nil, m.CompleteError
	}

	m.rideRepo.mu.Lock()
	ride, ok := m.rideRepo.rides[rideID]
	if !ok {
		m.rideRepo.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusStarted {
		m.rideRepo.mu.Unlock()
		return nil, repository.ErrNoTransition
	}
	ride.Status = domain.RideStatusCompleted
	ride.EndTime = endedAt
	ride.UserOTP = presentedOTP
	completed := *ride
	m.rideRepo.mu.Unlock()

	if err := m.partnerRepo.IncrementEarnings(ctx, completed.PartnerID, completed.RiderEarnings); err != nil {
		return nil, err
	}

	return &completed, nil
}

// ──────────────────────────────────────────────
// MOCK ID GENERATOR
// ──────────────────────────────────────────────

// MockIDGenerator is a counter-backed CustomIDGenerator.
type MockIDGenerator struct {
	counter int64

	// Error injection
	NextError error
}

// NewMockIDGenerator creates a new mock ID generator.
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Next(ctx context.Context, cityCode, entityType string) (string, error) {
	if m.NextError != nil {
		return "", m.NextError
	}
	n := atomic.AddInt64(&m.counter, 1)
	return fmt.Sprintf("%s-%s-%05d", cityCode, entityType, n), nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]redis.PartnerLocation
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]redis.PartnerLocation),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, partnerID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[partnerID] = redis.PartnerLocation{PartnerID: partnerID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) GetLocation(ctx context.Context, partnerID string) (redis.PartnerLocation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[partnerID]
	return loc, ok, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, partnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, partnerID)
	return nil
}

// MockLockStore is an in-memory LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[rideID] {
		return false, nil
	}
	m.locks[rideID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, rideID)
	return nil
}

// MockConfigCache is an in-memory ConfigCacheInterface.
type MockConfigCache struct {
	mu  sync.RWMutex
	cfg *redis.CachedPricingConfig

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockConfigCache creates a new mock config cache.
func NewMockConfigCache() *MockConfigCache {
	return &MockConfigCache{}
}

func (m *MockConfigCache) GetActiveConfig(ctx context.Context) (*redis.CachedPricingConfig, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return nil, nil
	}
	copy := *m.cfg
	return &copy, nil
}

func (m *MockConfigCache) SetActiveConfig(ctx context.Context, cfg *redis.CachedPricingConfig) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

func (m *MockConfigCache) InvalidateActiveConfig(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = nil
	return nil
}

// ──────────────────────────────────────────────
// SPY NOTIFIER
// ──────────────────────────────────────────────

// SpyNotifier records emitted lifecycle events for assertions.
type SpyNotifier struct {
	mu     sync.Mutex
	events []service.RideEvent
}

// NewSpyNotifier creates a new spy notifier.
func NewSpyNotifier() *SpyNotifier {
	return &SpyNotifier{}
}

func (n *SpyNotifier) Notify(ctx context.Context, event service.RideEvent, ride *domain.Ride) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// Events returns the recorded events in order.
func (n *SpyNotifier) Events() []service.RideEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]service.RideEvent, len(n.events))
	copy(out, n.events)
	return out
}
