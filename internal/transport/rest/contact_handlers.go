package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"contacts_project/internal/domain"
	"contacts_project/internal/httperr"
	"contacts_project/internal/middleware"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// ContactStore is the persistence surface the contact endpoints delegate to.
// *repository.ContactRepository satisfies it; tests substitute an in-memory
// implementation. Absence is signaled with gorm.ErrRecordNotFound.
type ContactStore interface {
	List(ctx context.Context) ([]domain.Contact, error)
	FindByID(ctx context.Context, id uint) (*domain.Contact, error)
	FindByEmail(ctx context.Context, email string) (*domain.Contact, error)
	SearchByFirstName(ctx context.Context, firstName string) ([]domain.Contact, error)
	SearchByLastName(ctx context.Context, lastName string) ([]domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	Remove(ctx context.Context, contact *domain.Contact) error
	UpcomingBirthdays(ctx context.Context, start, end time.Time) ([]domain.Contact, error)
}

type ContactHandler struct {
	store ContactStore
	now   func() time.Time
}

func NewContactHandler(store ContactStore) *ContactHandler {
	return &ContactHandler{store: store, now: time.Now}
}

type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"`
}

func (req *ContactRequest) validate() error {
	if req.FirstName == "" {
		return errors.New("first_name is required")
	}
	if req.LastName == "" {
		return errors.New("last_name is required")
	}
	if req.Email == "" {
		return errors.New("email is required")
	}
	if req.Birthday != "" {
		if _, err := time.Parse("2006-01-02", req.Birthday); err != nil {
			return errors.New("birthday must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}

func (req *ContactRequest) apply(contact *domain.Contact) {
	contact.FirstName = req.FirstName
	contact.LastName = req.LastName
	contact.Email = req.Email
	contact.Phone = req.Phone
	if req.Birthday != "" {
		contact.Birthday, _ = time.Parse("2006-01-02", req.Birthday)
	} else {
		contact.Birthday = time.Time{}
	}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.List(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) SearchByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}

	contact, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.ErrNotFound)
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

// Name searches treat an empty result as a miss: the caller asked for a
// specific person, so no match is a 404 rather than an empty list.
func (h *ContactHandler) SearchByLastName(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.SearchByLastName(r.Context(), chi.URLParam(r, "last_name"))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if len(contacts) == 0 {
		httperr.Write(w, httperr.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) SearchByFirstName(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.SearchByFirstName(r.Context(), chi.URLParam(r, "first_name"))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if len(contacts) == 0 {
		httperr.Write(w, httperr.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) SearchByEmail(w http.ResponseWriter, r *http.Request) {
	contact, err := h.store.FindByEmail(r.Context(), chi.URLParam(r, "email"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.ErrNotFound)
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	ctx := r.Context()
	if _, err := h.store.FindByEmail(ctx, req.Email); err == nil {
		httperr.Write(w, httperr.ErrConflict.WithDetail("contact with this email already exists"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, err)
		return
	}

	contact := &domain.Contact{}
	req.apply(contact)
	if user, ok := middleware.CurrentUser(ctx); ok {
		contact.CreatedBy = user.ID
	}

	if err := h.store.Create(ctx, contact); err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	ctx := r.Context()
	contact, err := h.store.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.ErrNotFound)
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}

	// Full-field overwrite, not a patch.
	req.apply(contact)
	if err := h.store.Update(ctx, contact); err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}

	ctx := r.Context()
	contact, err := h.store.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Write(w, httperr.ErrNotFound)
		return
	} else if err != nil {
		httperr.Write(w, err)
		return
	}

	if err := h.store.Remove(ctx, contact); err != nil {
		httperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) Birthdays(w http.ResponseWriter, r *http.Request) {
	today := h.now()
	end := today.AddDate(0, 0, 7)

	contacts, err := h.store.UpcomingBirthdays(r.Context(), today, end)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
