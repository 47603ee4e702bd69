// Package notify delivers push messages to driver and agent devices.
// Delivery is best-effort: callers treat failures as log-and-continue.
package notify

import "context"

type MessageType string

const (
	TypeLocationUpdate MessageType = "LOCATION_UPDATE"
	TypeRideRequest    MessageType = "RIDE_REQUEST"
	TypeRideAccepted   MessageType = "RIDE_ACCEPTED"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Message is a typed push payload. Title/Body are optional; a message without
// them is delivered as a silent data message that wakes the app in the
// background.
type Message struct {
	Type     MessageType
	Priority Priority
	Title    string
	Body     string
	Data     map[string]string
}

type Notifier interface {
	Send(ctx context.Context, token string, msg Message) error
}
