package models

// Event types published to Kafka.
const (
	EventUserRegistered = "user_registered"
	EventProfileUpdated = "profile_updated"
	EventPostCreated    = "post_created"
	EventUserFollowed   = "user_followed"
)

// Event represents a domain event, including its type, originating user, timestamp and payload.
type Event struct {
	EventID   string         `json:"event_id"`          // EventID is a unique identifier for the event.
	Type      string         `json:"type"`              // Type is one of the Event* constants.
	UserID    int64          `json:"user_id"`           // UserID is the user who caused the event.
	Username  string         `json:"username"`          // Username at the time of the event.
	Timestamp int64          `json:"timestamp"`         // Timestamp is the Unix time (in seconds) of the event.
	Payload   map[string]any `json:"payload,omitempty"` // Payload holds event-specific fields.
}
