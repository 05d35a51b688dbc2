package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var validUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9._-]{1,62})$`)

// ValidateUsername checks length and character set for account usernames.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if !validUsernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username must be 2-63 characters of letters, digits, '.', '_' or '-'", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword enforces the minimum password policy. Hashing parameters
// live with the auth service; only shape is checked here.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: password exceeds 128 characters", ErrInvalidInput)
	}
	return nil
}

// ValidateKeyName checks the display name of an API key.
func ValidateKeyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: key name cannot be empty", ErrInvalidInput)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: key name exceeds 100 characters", ErrInvalidInput)
	}
	return nil
}

// ValidateEvent checks required fields and schedule ordering.
func ValidateEvent(e *Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event title cannot be empty", ErrInvalidInput)
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		return fmt.Errorf("%w: event start and end times are required", ErrInvalidInput)
	}
	if e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("%w: event cannot end before it starts", ErrInvalidInput)
	}
	if e.Capacity < 0 {
		return fmt.Errorf("%w: event capacity cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateCourse checks required fields and schedule ordering.
func ValidateCourse(c *Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: course title cannot be empty", ErrInvalidInput)
	}
	if !c.EndsAt.IsZero() && !c.StartsAt.IsZero() && c.EndsAt.Before(c.StartsAt) {
		return fmt.Errorf("%w: course cannot end before it starts", ErrInvalidInput)
	}
	return nil
}

// ValidateParticipant checks the fields of an event registration.
func ValidateParticipant(p *Participant) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: participant name cannot be empty", ErrInvalidInput)
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: participant email is not valid", ErrInvalidInput)
	}
	return nil
}

// ValidateMediaAsset checks the fields of a media asset reference.
func ValidateMediaAsset(m *MediaAsset) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: media title cannot be empty", ErrInvalidInput)
	}
	if m.URL == "" {
		return fmt.Errorf("%w: media URL cannot be empty", ErrInvalidInput)
	}
	if m.SizeBytes < 0 {
		return fmt.Errorf("%w: media size cannot be negative", ErrInvalidInput)
	}
	return nil
}
