package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/towerscope/towerscope/internal/store"
	"github.com/towerscope/towerscope/pkg/profile"
)

type createProfileRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.manager.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	if profiles == nil {
		profiles = []*profile.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.manager.Get(r.Context(), r.PathValue("profileID"))
	if err != nil {
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), r.PathValue("profileID")); err != nil {
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleDuplicateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.Duplicate(r.Context(), r.PathValue("profileID"), req.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleBackupProfile(w http.ResponseWriter, r *http.Request) {
	backupID, err := h.manager.Backup(r.Context(), r.PathValue("profileID"))
	if err != nil {
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"backup_id": backupID})
}

type setLevelRequest struct {
	Level int `json:"level"`
}

func (h *Handler) handleSetLevel(w http.ResponseWriter, r *http.Request) {
	var req setLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.SetLevel(r.Context(), r.PathValue("profileID"), r.PathValue("upgradeID"), req.Level)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleSetResearchLevel(w http.ResponseWriter, r *http.Request) {
	var req setLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.SetResearchLevel(r.Context(), r.PathValue("profileID"), r.PathValue("researchID"), req.Level)
	if err != nil {
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type setCoinsRequest struct {
	Coins int64 `json:"coins"`
}

func (h *Handler) handleSetCoins(w http.ResponseWriter, r *http.Request) {
	var req setCoinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.SetCoins(r.Context(), r.PathValue("profileID"), req.Coins)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type setWeightsRequest struct {
	Weights profile.Weights `json:"weights"`
}

func (h *Handler) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var req setWeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Weights == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.manager.SetWeights(r.Context(), r.PathValue("profileID"), req.Weights)
	if err != nil {
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
