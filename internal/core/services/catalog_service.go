package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
)

type catalogService struct {
	repo     ports.Repository
	sessions ports.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewCatalogService creates the CRUD service for events, courses, media and
// registrations. The session store is only consulted for health checks.
func NewCatalogService(repo ports.Repository, sessions ports.SessionStore, logger *slog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, sessions: sessions, logger: logger, now: time.Now}
}

// Events

func (s *catalogService) CreateEvent(ctx context.Context, userID int64, event *domain.Event) error {
	if err := domain.ValidateEvent(event); err != nil {
		return err
	}
	event.ID = uuid.New().String()
	event.OwnerID = userID
	event.CreatedAt = s.now()
	event.UpdatedAt = event.CreatedAt

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.audit(ctx, userID, "event.create", event.Title)
	return nil
}

func (s *catalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *catalogService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *catalogService) UpdateEvent(ctx context.Context, userID int64, event *domain.Event) error {
	existing, err := s.ownedEvent(ctx, userID, event.ID)
	if err != nil {
		return err
	}
	if err := domain.ValidateEvent(event); err != nil {
		return err
	}
	event.OwnerID = existing.OwnerID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	s.audit(ctx, userID, "event.update", event.Title)
	return nil
}

func (s *catalogService) DeleteEvent(ctx context.Context, userID int64, id string) error {
	event, err := s.ownedEvent(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.audit(ctx, userID, "event.delete", event.Title)
	return nil
}

func (s *catalogService) ownedEvent(ctx context.Context, userID int64, id string) (*domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	if event.OwnerID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return event, nil
}

// Participants

// RegisterParticipant is the one write path reachable with API-key
// authentication, so it carries no ownership requirement. Capacity is
// enforced when the event declares one.
func (s *catalogService) RegisterParticipant(ctx context.Context, eventID string, p *domain.Participant) error {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrNotFound
	}
	if err := domain.ValidateParticipant(p); err != nil {
		return err
	}

	if event.Capacity > 0 {
		count, err := s.repo.CountParticipants(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if count >= event.Capacity {
			return fmt.Errorf("%w: event is at capacity", domain.ErrConflict)
		}
	}

	p.ID = uuid.New().String()
	p.EventID = eventID
	p.RegisteredAt = s.now()

	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return fmt.Errorf("register participant: %w", err)
	}
	return nil
}

func (s *catalogService) ListParticipants(ctx context.Context, eventID string) ([]domain.Participant, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListParticipants(ctx, eventID)
}

func (s *catalogService) RemoveParticipant(ctx context.Context, userID int64, eventID, participantID string) error {
	if _, err := s.ownedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	if err := s.repo.DeleteParticipant(ctx, participantID, eventID); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

// Courses

func (s *catalogService) CreateCourse(ctx context.Context, userID int64, course *domain.Course) error {
	if err := domain.ValidateCourse(course); err != nil {
		return err
	}
	course.ID = uuid.New().String()
	course.OwnerID = userID
	course.CreatedAt = s.now()
	course.UpdatedAt = course.CreatedAt

	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	s.audit(ctx, userID, "course.create", course.Title)
	return nil
}

func (s *catalogService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrNotFound
	}
	return course, nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.repo.ListCourses(ctx)
}

func (s *catalogService) UpdateCourse(ctx context.Context, userID int64, course *domain.Course) error {
	existing, err := s.ownedCourse(ctx, userID, course.ID)
	if err != nil {
		return err
	}
	if err := domain.ValidateCourse(course); err != nil {
		return err
	}
	course.OwnerID = existing.OwnerID
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = s.now()

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	s.audit(ctx, userID, "course.update", course.Title)
	return nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, userID int64, id string) error {
	course, err := s.ownedCourse(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.audit(ctx, userID, "course.delete", course.Title)
	return nil
}

func (s *catalogService) ownedCourse(ctx context.Context, userID int64, id string) (*domain.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrNotFound
	}
	if course.OwnerID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return course, nil
}

// Training sessions

func (s *catalogService) CreateTrainingSession(ctx context.Context, userID int64, courseID string, session *domain.TrainingSession) error {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return err
	}
	session.ID = uuid.New().String()
	session.CourseID = courseID

	if err := s.repo.CreateTrainingSession(ctx, session); err != nil {
		return fmt.Errorf("create training session: %w", err)
	}
	s.audit(ctx, userID, "session.create", session.Title)
	return nil
}

func (s *catalogService) ListTrainingSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	return s.repo.ListTrainingSessions(ctx)
}

func (s *catalogService) ListTrainingSessionsForCourse(ctx context.Context, courseID string) ([]domain.TrainingSession, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListTrainingSessionsForCourse(ctx, courseID)
}

func (s *catalogService) DeleteTrainingSession(ctx context.Context, userID int64, id string) error {
	session, err := s.repo.GetTrainingSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrNotFound
	}
	if _, err := s.ownedCourse(ctx, userID, session.CourseID); err != nil {
		return err
	}
	if err := s.repo.DeleteTrainingSession(ctx, id); err != nil {
		return fmt.Errorf("delete training session: %w", err)
	}
	s.audit(ctx, userID, "session.delete", session.Title)
	return nil
}

// Media

func (s *catalogService) CreateMediaAsset(ctx context.Context, userID int64, m *domain.MediaAsset) error {
	if err := domain.ValidateMediaAsset(m); err != nil {
		return err
	}
	m.ID = uuid.New().String()
	m.OwnerID = userID
	m.CreatedAt = s.now()

	if err := s.repo.CreateMediaAsset(ctx, m); err != nil {
		return fmt.Errorf("create media asset: %w", err)
	}
	s.audit(ctx, userID, "media.create", m.Title)
	return nil
}

func (s *catalogService) GetMediaAsset(ctx context.Context, id string) (*domain.MediaAsset, error) {
	m, err := s.repo.GetMediaAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *catalogService) ListMediaAssets(ctx context.Context) ([]domain.MediaAsset, error) {
	return s.repo.ListMediaAssets(ctx)
}

func (s *catalogService) DeleteMediaAsset(ctx context.Context, userID int64, id string) error {
	m, err := s.repo.GetMediaAsset(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if m.OwnerID != userID {
		return domain.ErrNotAuthorized
	}
	if err := s.repo.DeleteMediaAsset(ctx, id); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	s.audit(ctx, userID, "media.delete", m.Title)
	return nil
}

// Audit

func (s *catalogService) ListAuditEntries(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	return s.repo.ListAuditEntries(ctx, userID)
}

// HealthCheck reports per-dependency status for the health endpoint.
func (s *catalogService) HealthCheck(ctx context.Context) map[string]error {
	checks := map[string]error{
		"database": s.repo.Ping(ctx),
	}
	if s.sessions != nil {
		checks["sessions"] = s.sessions.Ping(ctx)
	}
	return checks
}

func (s *catalogService) audit(ctx context.Context, userID int64, action, detail string) {
	saveAudit(ctx, s.repo, s.logger, s.now(), &userID, action, detail)
}
