package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rolodex/internal/platform/middleware"
	"rolodex/internal/profile/models"
	"rolodex/internal/transport/http/shared"
	dErrors "rolodex/pkg/domain-errors"
)

// Service defines the profile operations the HTTP layer depends on.
type Service interface {
	List(ctx context.Context) ([]*models.ProfileView, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProfileView, error)
	Create(ctx context.Context, name, email string) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, name, email string) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddExperience(ctx context.Context, id uuid.UUID, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, id, expID uuid.UUID) (*models.Profile, error)
	AddSkill(ctx context.Context, id uuid.UUID, skill string) (*models.Profile, error)
	RemoveSkill(ctx context.Context, id uuid.UUID, skill string) (*models.Profile, error)
	AddFriend(ctx context.Context, id, friendID uuid.UUID) (*models.Profile, error)
	RemoveFriend(ctx context.Context, id, friendID uuid.UUID) (*models.Profile, error)
}

// Handler wires the profile routes to the service.
type Handler struct {
	profiles Service
	logger   *slog.Logger
}

func New(profiles Service, logger *slog.Logger) *Handler {
	return &Handler{profiles: profiles, logger: logger}
}

// Register mounts the profile routes under /api/profiles.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/profiles", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/experience", h.handleAddExperience)
		r.Delete("/{id}/experience/{expID}", h.handleRemoveExperience)
		r.Post("/{id}/skills", h.handleAddSkill)
		r.Delete("/{id}/skills/{skill}", h.handleRemoveSkill)
		r.Post("/{id}/friends", h.handleAddFriend)
		r.Delete("/{id}/friends/{friendID}", h.handleRemoveFriend)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.profiles.List(r.Context())
	if err != nil {
		h.fail(w, r, "list profiles", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get profile", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		h.fail(w, r, "create profile", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.profiles.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete profile", err)
		return
	}
	shared.WriteMessage(w, http.StatusOK, "profile deleted")
}

func (h *Handler) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req AddExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	exp, err := req.ToModel()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.AddExperience(r.Context(), id, exp)
	if err != nil {
		h.fail(w, r, "add experience", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	expID, err := pathID(r, "expID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.RemoveExperience(r.Context(), id, expID)
	if err != nil {
		h.fail(w, r, "remove experience", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req AddSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.AddSkill(r.Context(), id, req.Skill)
	if err != nil {
		h.fail(w, r, "add skill", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	skill := chi.URLParam(r, "skill")

	p, err := h.profiles.RemoveSkill(r.Context(), id, skill)
	if err != nil {
		h.fail(w, r, "remove skill", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	friendID, err := req.ParseFriendID()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.AddFriend(r.Context(), id, friendID)
	if err != nil {
		h.fail(w, r, "add friend", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	friendID, err := pathID(r, "friendID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.profiles.RemoveFriend(r.Context(), id, friendID)
	if err != nil {
		h.fail(w, r, "remove friend", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

// fail logs store-level failures and writes the coded envelope. Expected
// outcomes (not found, conflict, bad request) are not log-noise.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), op+" failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}

// pathID parses a uuid path parameter; malformed ids are bad requests, not
// store exceptions.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, name+" must be a valid uuid")
	}
	return id, nil
}
