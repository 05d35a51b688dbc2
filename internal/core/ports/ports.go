package ports

import (
	"context"
	"time"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

// Repository is the persistence capability the core depends on. Lookups
// return (nil, nil) when the row does not exist; callers decide whether that
// is an error.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateUserSettings(ctx context.Context, user *domain.User) error

	// API keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error)
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context, userID int64) ([]domain.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string, usedAt time.Time) error
	SetAPIKeyActive(ctx context.Context, id string, active bool) error
	DeleteAPIKey(ctx context.Context, id string) error

	// Events and participants
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, event *domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
	CreateParticipant(ctx context.Context, p *domain.Participant) error
	ListParticipants(ctx context.Context, eventID string) ([]domain.Participant, error)
	CountParticipants(ctx context.Context, eventID string) (int, error)
	DeleteParticipant(ctx context.Context, id string, eventID string) error

	// Courses and training sessions
	CreateCourse(ctx context.Context, course *domain.Course) error
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	UpdateCourse(ctx context.Context, course *domain.Course) error
	DeleteCourse(ctx context.Context, id string) error
	CreateTrainingSession(ctx context.Context, s *domain.TrainingSession) error
	GetTrainingSession(ctx context.Context, id string) (*domain.TrainingSession, error)
	ListTrainingSessions(ctx context.Context) ([]domain.TrainingSession, error)
	ListTrainingSessionsForCourse(ctx context.Context, courseID string) ([]domain.TrainingSession, error)
	DeleteTrainingSession(ctx context.Context, id string) error

	// Media
	CreateMediaAsset(ctx context.Context, m *domain.MediaAsset) error
	GetMediaAsset(ctx context.Context, id string) (*domain.MediaAsset, error)
	ListMediaAssets(ctx context.Context) ([]domain.MediaAsset, error)
	DeleteMediaAsset(ctx context.Context, id string) error

	// Audit
	SaveAuditEntry(ctx context.Context, entry *domain.AuditEntry) error
	ListAuditEntries(ctx context.Context, userID int64) ([]domain.AuditEntry, error)

	Ping(ctx context.Context) error
}

// SessionStore binds opaque tokens to user ids with a TTL. Get returns
// (0, false, nil) for unknown or expired tokens.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (int64, bool, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// AuthService is the session authenticator.
type AuthService interface {
	Register(ctx context.Context, user *domain.User, password string) error
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	UserFromSession(ctx context.Context, token string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	UpdateSettings(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// APIKeyService manages API-key lifecycle for a resolved user.
type APIKeyService interface {
	// Create mints a key and returns the record plus the raw secret, which
	// is never retrievable again.
	Create(ctx context.Context, userID int64, name string, expiryDays *int) (*domain.APIKey, string, error)
	List(ctx context.Context, userID int64) ([]domain.APIKey, error)
	SetActive(ctx context.Context, userID int64, keyID string, active bool) (*domain.APIKey, error)
	Delete(ctx context.Context, userID int64, keyID string) error
}

// CatalogService performs CRUD over events, courses, media and registrations,
// enforcing ownership on mutation.
type CatalogService interface {
	CreateEvent(ctx context.Context, userID int64, event *domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, userID int64, event *domain.Event) error
	DeleteEvent(ctx context.Context, userID int64, id string) error

	RegisterParticipant(ctx context.Context, eventID string, p *domain.Participant) error
	ListParticipants(ctx context.Context, eventID string) ([]domain.Participant, error)
	RemoveParticipant(ctx context.Context, userID int64, eventID, participantID string) error

	CreateCourse(ctx context.Context, userID int64, course *domain.Course) error
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	UpdateCourse(ctx context.Context, userID int64, course *domain.Course) error
	DeleteCourse(ctx context.Context, userID int64, id string) error

	CreateTrainingSession(ctx context.Context, userID int64, courseID string, s *domain.TrainingSession) error
	ListTrainingSessions(ctx context.Context) ([]domain.TrainingSession, error)
	ListTrainingSessionsForCourse(ctx context.Context, courseID string) ([]domain.TrainingSession, error)
	DeleteTrainingSession(ctx context.Context, userID int64, id string) error

	CreateMediaAsset(ctx context.Context, userID int64, m *domain.MediaAsset) error
	GetMediaAsset(ctx context.Context, id string) (*domain.MediaAsset, error)
	ListMediaAssets(ctx context.Context) ([]domain.MediaAsset, error)
	DeleteMediaAsset(ctx context.Context, userID int64, id string) error

	ListAuditEntries(ctx context.Context, userID int64) ([]domain.AuditEntry, error)

	HealthCheck(ctx context.Context) map[string]error
}
