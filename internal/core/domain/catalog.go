package domain

import "time"

// Event is a scheduled happening people can register for. Capacity 0 means
// unlimited.
type Event struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Participant is a registration on an event.
type Participant struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Course is a multi-session training offering.
type Course struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TrainingSession is a single scheduled meeting of a course.
type TrainingSession struct {
	ID       string    `json:"id"`
	CourseID string    `json:"courseId"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Room     string    `json:"room"`
}

// MediaAsset is an uploaded file reference. The bytes themselves live in
// external storage; only the pointer is kept here.
type MediaAsset struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditEntry records a security-relevant action. UserID is nil for actions
// that happen before an identity is resolved.
type AuditEntry struct {
	ID        string    `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}
