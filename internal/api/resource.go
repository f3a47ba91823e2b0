package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RecordStore is the persistence contract shared by every collection.
type RecordStore[T, C, U any] interface {
	Create(ctx context.Context, in C) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Update(ctx context.Context, id string, in U) (*T, error)
	Delete(ctx context.Context, id string) error
}

// createInput is a full record body.
type createInput[U any] interface {
	Validate() error
	Patch() U
}

// updateInput is a partial record body that can be merged onto a record.
type updateInput[T, C any] interface {
	ApplyTo(*T) C
}

// resourceHandler serves list, retrieve, create, replace, patch and delete
// for one collection.
type resourceHandler[T any, C createInput[U], U updateInput[T, C]] struct {
	name  string // singular, used in audit entries
	store RecordStore[T, C, U]
	id    func(*T) string
}

func (h *resourceHandler[T, C, U]) mount(r chi.Router, path string) {
	r.Get(path, h.list)
	r.Post(path, h.create)
	r.Get(path+"/{id}", h.get)
	r.Put(path+"/{id}", h.replace)
	r.Patch(path+"/{id}", h.patch)
	r.Delete(path+"/{id}", h.remove)
}

func (h *resourceHandler[T, C, U]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "list "+h.name+"s")
		return
	}
	if items == nil {
		items = []*T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resourceHandler[T, C, U]) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err, "get "+h.name)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, C, U]) create(w http.ResponseWriter, r *http.Request) {
	var in C
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeStoreError(w, r, err, "create "+h.name)
		return
	}

	item, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, err, "create "+h.name)
		return
	}

	auditLog(r, "create", h.name, h.id(item))
	writeJSON(w, http.StatusCreated, item)
}

// replace handles PUT: the body must be a complete, valid record.
func (h *resourceHandler[T, C, U]) replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in C
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeStoreError(w, r, err, "update "+h.name)
		return
	}

	item, err := h.store.Update(r.Context(), id, in.Patch())
	if err != nil {
		writeStoreError(w, r, err, "update "+h.name)
		return
	}

	auditLog(r, "replace", h.name, id)
	writeJSON(w, http.StatusOK, item)
}

// patch handles PATCH: the body is merged onto the stored record and the
// result must pass the same checks as a create.
func (h *resourceHandler[T, C, U]) patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in U
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	current, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "update "+h.name)
		return
	}
	if err := in.ApplyTo(current).Validate(); err != nil {
		writeStoreError(w, r, err, "update "+h.name)
		return
	}

	item, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, r, err, "update "+h.name)
		return
	}

	auditLog(r, "update", h.name, id)
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, C, U]) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "delete "+h.name)
		return
	}

	auditLog(r, "delete", h.name, id)
	w.WriteHeader(http.StatusNoContent)
}
