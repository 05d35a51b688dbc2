package api

import (
	"encoding/json"
	"net/http"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

// Events

func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalog.ListEvents(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"events": events})
}

func (h *APIHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.catalog.CreateEvent(r.Context(), userID, &event); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]any{"event": event})
}

func (h *APIHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.catalog.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"event": event})
}

func (h *APIHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	event.ID = r.PathValue("id")
	if err := h.catalog.UpdateEvent(r.Context(), userID, &event); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"event": event})
}

func (h *APIHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.catalog.DeleteEvent(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Participants

func (h *APIHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.catalog.ListParticipants(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"participants": participants})
}

func (h *APIHandler) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	var p domain.Participant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.catalog.RegisterParticipant(r.Context(), r.PathValue("id"), &p); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]any{"participant": p})
}

func (h *APIHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.catalog.RemoveParticipant(r.Context(), userID, r.PathValue("id"), r.PathValue("pid")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Courses

func (h *APIHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"courses": courses})
}

func (h *APIHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var course domain.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.catalog.CreateCourse(r.Context(), userID, &course); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]any{"course": course})
}

func (h *APIHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.catalog.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"course": course})
}

func (h *APIHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var course domain.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	course.ID = r.PathValue("id")
	if err := h.catalog.UpdateCourse(r.Context(), userID, &course); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"course": course})
}

func (h *APIHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.catalog.DeleteCourse(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Training sessions

func (h *APIHandler) ListCourseSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.catalog.ListTrainingSessionsForCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if sessions == nil {
		sessions = []domain.TrainingSession{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *APIHandler) CreateCourseSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var session domain.TrainingSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.catalog.CreateTrainingSession(r.Context(), userID, r.PathValue("id"), &session); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]any{"session": session})
}

func (h *APIHandler) ListTrainingSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.catalog.ListTrainingSessions(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if sessions == nil {
		sessions = []domain.TrainingSession{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *APIHandler) DeleteTrainingSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.catalog.DeleteTrainingSession(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Media

func (h *APIHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := h.catalog.ListMediaAssets(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if assets == nil {
		assets = []domain.MediaAsset{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"media": assets})
}

func (h *APIHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var m domain.MediaAsset
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.catalog.CreateMediaAsset(r.Context(), userID, &m); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]any{"media": m})
}

func (h *APIHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.GetMediaAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"media": m})
}

func (h *APIHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.catalog.DeleteMediaAsset(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
