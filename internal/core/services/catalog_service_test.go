package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
	"github.com/eventdeskhq/eventdesk/internal/testutil"
)

func newCatalogFixture() (*testutil.MockRepo, ports.CatalogService) {
	mockRepo := &testutil.MockRepo{}
	mockRepo.On("SaveAuditEntry", mock.Anything).Return(nil).Maybe()
	svc := NewCatalogService(mockRepo, testutil.NewMemSessionStore(), testLogger())
	return mockRepo, svc
}

func validEvent(ownerID int64) *domain.Event {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	return &domain.Event{
		OwnerID:  ownerID,
		Title:    "Autumn workshop",
		StartsAt: start,
		EndsAt:   start.Add(8 * time.Hour),
		Capacity: 2,
	}
}

func TestCreateEvent(t *testing.T) {
	t.Run("stamps id, owner and times", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		mockRepo.On("CreateEvent", mock.Anything).Return(nil).Once()

		event := validEvent(0)
		if err := svc.CreateEvent(context.Background(), 3, event); err != nil {
			t.Fatal(err)
		}
		if event.ID == "" {
			t.Error("event id not assigned")
		}
		if event.OwnerID != 3 {
			t.Errorf("owner not set from caller: %d", event.OwnerID)
		}
		if event.CreatedAt.IsZero() || !event.UpdatedAt.Equal(event.CreatedAt) {
			t.Errorf("timestamps not stamped: created=%v updated=%v", event.CreatedAt, event.UpdatedAt)
		}
	})

	t.Run("rejects end before start", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()

		event := validEvent(0)
		event.EndsAt = event.StartsAt.Add(-time.Hour)
		err := svc.CreateEvent(context.Background(), 3, event)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		mockRepo.AssertNotCalled(t, "CreateEvent", mock.Anything)
	})
}

func TestUpdateEventPreservesOwnership(t *testing.T) {
	mockRepo, svc := newCatalogFixture()

	createdAt := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	existing := validEvent(3)
	existing.ID = "e1"
	existing.CreatedAt = createdAt
	mockRepo.On("GetEvent", "e1").Return(existing, nil).Once()
	mockRepo.On("UpdateEvent", mock.Anything).Return(nil).Once()

	update := validEvent(0)
	update.ID = "e1"
	update.OwnerID = 42 // a caller cannot reassign ownership
	update.Title = "Renamed workshop"

	if err := svc.UpdateEvent(context.Background(), 3, update); err != nil {
		t.Fatal(err)
	}
	if update.OwnerID != 3 {
		t.Errorf("ownership reassigned to %d", update.OwnerID)
	}
	if !update.CreatedAt.Equal(createdAt) {
		t.Errorf("createdAt rewritten to %v", update.CreatedAt)
	}
	if !update.UpdatedAt.After(createdAt) {
		t.Errorf("updatedAt not advanced: %v", update.UpdatedAt)
	}
}

func TestEventOwnership(t *testing.T) {
	t.Run("update by non-owner", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		existing := validEvent(3)
		existing.ID = "e1"
		mockRepo.On("GetEvent", "e1").Return(existing, nil).Once()

		update := validEvent(0)
		update.ID = "e1"
		err := svc.UpdateEvent(context.Background(), 99, update)
		if !errors.Is(err, domain.ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
		mockRepo.AssertNotCalled(t, "UpdateEvent", mock.Anything)
	})

	t.Run("delete missing event", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		mockRepo.On("GetEvent", "gone").Return(nil, nil).Once()

		err := svc.DeleteEvent(context.Background(), 3, "gone")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRegisterParticipant(t *testing.T) {
	t.Run("no ownership requirement", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		event := validEvent(3)
		event.ID = "e1"
		mockRepo.On("GetEvent", "e1").Return(event, nil).Once()
		mockRepo.On("CountParticipants", "e1").Return(1, nil).Once()
		var saved *domain.Participant
		mockRepo.On("CreateParticipant", mock.MatchedBy(func(p *domain.Participant) bool {
			saved = p
			return true
		})).Return(nil).Once()

		p := &domain.Participant{Name: "Dana", Email: "dana@example.com"}
		if err := svc.RegisterParticipant(context.Background(), "e1", p); err != nil {
			t.Fatal(err)
		}
		if saved.ID == "" || saved.EventID != "e1" {
			t.Errorf("registration not stamped: id=%q event=%q", saved.ID, saved.EventID)
		}
		if saved.RegisteredAt.IsZero() {
			t.Error("registeredAt not stamped")
		}
	})

	t.Run("full event", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		event := validEvent(3)
		event.ID = "e1"
		mockRepo.On("GetEvent", "e1").Return(event, nil).Once()
		mockRepo.On("CountParticipants", "e1").Return(2, nil).Once()

		p := &domain.Participant{Name: "Dana", Email: "dana@example.com"}
		err := svc.RegisterParticipant(context.Background(), "e1", p)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		mockRepo.AssertNotCalled(t, "CreateParticipant", mock.Anything)
	})

	t.Run("capacity zero means unlimited", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		event := validEvent(3)
		event.ID = "e1"
		event.Capacity = 0
		mockRepo.On("GetEvent", "e1").Return(event, nil).Once()
		mockRepo.On("CreateParticipant", mock.Anything).Return(nil).Once()

		p := &domain.Participant{Name: "Dana", Email: "dana@example.com"}
		if err := svc.RegisterParticipant(context.Background(), "e1", p); err != nil {
			t.Fatal(err)
		}
		mockRepo.AssertNotCalled(t, "CountParticipants", mock.Anything)
	})

	t.Run("unknown event", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		mockRepo.On("GetEvent", "gone").Return(nil, nil).Once()

		p := &domain.Participant{Name: "Dana", Email: "dana@example.com"}
		err := svc.RegisterParticipant(context.Background(), "gone", p)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		event := validEvent(3)
		event.ID = "e1"
		mockRepo.On("GetEvent", "e1").Return(event, nil).Once()

		p := &domain.Participant{Name: "Dana", Email: "not-an-email"}
		err := svc.RegisterParticipant(context.Background(), "e1", p)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestDeleteTrainingSessionViaCourseOwnership(t *testing.T) {
	t.Run("owner of the course may delete", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		mockRepo.On("GetTrainingSession", "s1").
			Return(&domain.TrainingSession{ID: "s1", CourseID: "c1", Title: "Week 1"}, nil).Once()
		mockRepo.On("GetCourse", "c1").
			Return(&domain.Course{ID: "c1", OwnerID: 3}, nil).Once()
		mockRepo.On("DeleteTrainingSession", "s1").Return(nil).Once()

		if err := svc.DeleteTrainingSession(context.Background(), 3, "s1"); err != nil {
			t.Fatal(err)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		mockRepo, svc := newCatalogFixture()
		mockRepo.On("GetTrainingSession", "s1").
			Return(&domain.TrainingSession{ID: "s1", CourseID: "c1"}, nil).Once()
		mockRepo.On("GetCourse", "c1").
			Return(&domain.Course{ID: "c1", OwnerID: 99}, nil).Once()

		err := svc.DeleteTrainingSession(context.Background(), 3, "s1")
		if !errors.Is(err, domain.ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
		mockRepo.AssertNotCalled(t, "DeleteTrainingSession", mock.Anything)
	})
}

func TestDeleteMediaAssetOwnership(t *testing.T) {
	mockRepo, svc := newCatalogFixture()
	mockRepo.On("GetMediaAsset", "m1").
		Return(&domain.MediaAsset{ID: "m1", OwnerID: 99, Title: "Slides"}, nil).Once()

	err := svc.DeleteMediaAsset(context.Background(), 3, "m1")
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	mockRepo.AssertNotCalled(t, "DeleteMediaAsset", mock.Anything)
}
