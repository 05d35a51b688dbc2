package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

// MockRepo implements ports.Repository for testing.
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockRepo) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func (m *MockRepo) UpdateUserSettings(ctx context.Context, user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockRepo) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	args := m.Called(id)
	key, _ := args.Get(0).(*domain.APIKey)
	return key, args.Error(1)
}

func (m *MockRepo) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	args := m.Called(keyHash)
	key, _ := args.Get(0).(*domain.APIKey)
	return key, args.Error(1)
}

func (m *MockRepo) ListAPIKeys(ctx context.Context, userID int64) ([]domain.APIKey, error) {
	args := m.Called(userID)
	keys, _ := args.Get(0).([]domain.APIKey)
	return keys, args.Error(1)
}

func (m *MockRepo) UpdateAPIKeyLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(id, usedAt)
	return args.Error(0)
}

func (m *MockRepo) SetAPIKeyActive(ctx context.Context, id string, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

func (m *MockRepo) DeleteAPIKey(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) CreateEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockRepo) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(id)
	event, _ := args.Get(0).(*domain.Event)
	return event, args.Error(1)
}

func (m *MockRepo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called()
	events, _ := args.Get(0).([]domain.Event)
	return events, args.Error(1)
}

func (m *MockRepo) UpdateEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockRepo) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockRepo) ListParticipants(ctx context.Context, eventID string) ([]domain.Participant, error) {
	args := m.Called(eventID)
	participants, _ := args.Get(0).([]domain.Participant)
	return participants, args.Error(1)
}

func (m *MockRepo) CountParticipants(ctx context.Context, eventID string) (int, error) {
	args := m.Called(eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) DeleteParticipant(ctx context.Context, id string, eventID string) error {
	args := m.Called(id, eventID)
	return args.Error(0)
}

func (m *MockRepo) CreateCourse(ctx context.Context, course *domain.Course) error {
	args := m.Called(course)
	return args.Error(0)
}

func (m *MockRepo) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	args := m.Called(id)
	course, _ := args.Get(0).(*domain.Course)
	return course, args.Error(1)
}

func (m *MockRepo) ListCourses(ctx context.Context) ([]domain.Course, error) {
	args := m.Called()
	courses, _ := args.Get(0).([]domain.Course)
	return courses, args.Error(1)
}

func (m *MockRepo) UpdateCourse(ctx context.Context, course *domain.Course) error {
	args := m.Called(course)
	return args.Error(0)
}

func (m *MockRepo) DeleteCourse(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) CreateTrainingSession(ctx context.Context, s *domain.TrainingSession) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockRepo) GetTrainingSession(ctx context.Context, id string) (*domain.TrainingSession, error) {
	args := m.Called(id)
	s, _ := args.Get(0).(*domain.TrainingSession)
	return s, args.Error(1)
}

func (m *MockRepo) ListTrainingSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	args := m.Called()
	sessions, _ := args.Get(0).([]domain.TrainingSession)
	return sessions, args.Error(1)
}

func (m *MockRepo) ListTrainingSessionsForCourse(ctx context.Context, courseID string) ([]domain.TrainingSession, error) {
	args := m.Called(courseID)
	sessions, _ := args.Get(0).([]domain.TrainingSession)
	return sessions, args.Error(1)
}

func (m *MockRepo) DeleteTrainingSession(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) CreateMediaAsset(ctx context.Context, asset *domain.MediaAsset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockRepo) GetMediaAsset(ctx context.Context, id string) (*domain.MediaAsset, error) {
	args := m.Called(id)
	asset, _ := args.Get(0).(*domain.MediaAsset)
	return asset, args.Error(1)
}

func (m *MockRepo) ListMediaAssets(ctx context.Context) ([]domain.MediaAsset, error) {
	args := m.Called()
	assets, _ := args.Get(0).([]domain.MediaAsset)
	return assets, args.Error(1)
}

func (m *MockRepo) DeleteMediaAsset(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) SaveAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockRepo) ListAuditEntries(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	args := m.Called(userID)
	entries, _ := args.Get(0).([]domain.AuditEntry)
	return entries, args.Error(1)
}

func (m *MockRepo) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}
