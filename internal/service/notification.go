package service

import (
	"context"
	"log"

	"ridemarket/internal/domain"
)

// RideEvent identifies a lifecycle notification.
type RideEvent string

const (
	RideEventCreated   RideEvent = "RIDE_CREATED"
	RideEventAssigned  RideEvent = "RIDE_ASSIGNED"
	RideEventArrived   RideEvent = "RIDE_ARRIVED"
	RideEventStarted   RideEvent = "RIDE_STARTED"
	RideEventCompleted RideEvent = "RIDE_COMPLETED"
	RideEventCancelled RideEvent = "RIDE_CANCELLED"
)

// Notifier is the outbound notification gateway. Exactly one event is
// emitted per successful transition, after the persistence write commits.
// Delivery failures must never surface as ride-operation failures.
type Notifier interface {
	Notify(ctx context.Context, event RideEvent, ride *domain.Ride) error
}

// LogNotifier is a Notifier that writes events to the process log.
// In a real deployment this would fan out to push/socket channels.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the lifecycle event.
func (n *LogNotifier) Notify(ctx context.Context, event RideEvent, ride *domain.Ride) error {
	log.Printf("[NOTIFICATION] Event=%s, Ride=%s, User=%s, Partner=%s, Status=%s",
		event, ride.ID, ride.UserID, ride.PartnerID, ride.Status)
	return nil
}

// Ensure interface is satisfied.
var _ Notifier = (*LogNotifier)(nil)
