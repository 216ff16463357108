package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cargotrack/internal/imaging"
	"cargotrack/internal/model"
	"cargotrack/internal/store"
)

// maxPhotoUpload bounds a photo upload request body.
const maxPhotoUpload = 10 << 20

// ContainersHandler handles the container CRUD endpoints. The owner always
// comes from the authenticated session, never from the request.
type ContainersHandler struct {
	DB  *sql.DB
	Log *zap.Logger
}

// List handles GET /api/containers.
func (h *ContainersHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	containers, err := store.ListContainers(r.Context(), h.DB, owner.ID)
	if err != nil {
		h.Log.Error("listing containers", zap.String("owner", owner.ID), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if containers == nil {
		containers = []model.Container{}
	}

	jsonResponse(w, http.StatusOK, containers)
}

// Create handles POST /api/containers.
func (h *ContainersHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	var payload model.CreateContainer
	if err := decodeJSON(r, &payload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := payload.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			jsonValidationError(w, verr)
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid request")
		return
	}

	container, err := store.CreateContainer(r.Context(), h.DB, owner.ID, &payload)
	if err != nil {
		h.Log.Error("creating container", zap.String("owner", owner.ID), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to create container")
		return
	}

	h.Log.Info("container created",
		zap.String("owner", owner.ID),
		zap.Int64("id", container.ID),
		zap.String("number", container.ContainerNumber),
	)
	jsonResponse(w, http.StatusCreated, map[string]bool{"success": true})
}

// Update handles PUT /api/containers/{id}. Updating an id that doesn't belong
// to the caller silently changes nothing; the response doesn't reveal whether
// the row exists.
func (h *ContainersHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	var payload model.UpdateContainer
	if err := decodeJSON(r, &payload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := payload.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			jsonValidationError(w, verr)
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err = store.UpdateContainer(r.Context(), h.DB, owner.ID, id, &payload)
	if errors.Is(err, store.ErrNoFields) {
		jsonError(w, http.StatusBadRequest, "no updates provided")
		return
	}
	if err != nil {
		h.Log.Error("updating container", zap.String("owner", owner.ID), zap.Int64("id", id), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to update container")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /api/containers/{id}. Deleting a missing or foreign
// id is a no-op that still reports success.
func (h *ContainersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	if err := store.DeleteContainer(r.Context(), h.DB, owner.ID, id); err != nil {
		h.Log.Error("deleting container", zap.String("owner", owner.ID), zap.Int64("id", id), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to delete container")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadPhoto handles PUT /api/containers/{id}/photo.
func (h *ContainersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	photo, mime, err := imaging.Normalize(http.MaxBytesReader(w, r.Body, maxPhotoUpload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := store.SetContainerPhoto(r.Context(), h.DB, owner.ID, id, photo, mime)
	if err != nil {
		h.Log.Error("storing container photo", zap.String("owner", owner.ID), zap.Int64("id", id), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "container not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// GetPhoto handles GET /api/containers/{id}/photo.
func (h *ContainersHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid container id")
		return
	}

	photo, mime, err := store.GetContainerPhoto(r.Context(), h.DB, owner.ID, id)
	if err != nil {
		h.Log.Error("getting container photo", zap.String("owner", owner.ID), zap.Int64("id", id), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if photo == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(photo)
}
