// Package api implements the Towerscope REST API: profile management,
// catalog inspection, and ranking, backed by document storage and an
// optional Postgres run history.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/towerscope/towerscope/internal/history"
	"github.com/towerscope/towerscope/internal/store"
	"github.com/towerscope/towerscope/pkg/catalog"
)

// Handler is the top-level API handler for the Towerscope daemon.
type Handler struct {
	catalog         *catalog.Catalog
	research        *catalog.ResearchSet
	manager         *store.Manager
	historySvc      *history.Service // nil when no database is configured
	defaultStrategy string
	cache           *RankCache
}

// NewHandler creates a new API handler. historySvc may be nil.
func NewHandler(cat *catalog.Catalog, research *catalog.ResearchSet, manager *store.Manager, historySvc *history.Service, defaultStrategy string, cache *RankCache) *Handler {
	if cache == nil {
		cache = NewRankCacheFromEnv()
	}
	return &Handler{
		catalog:         cat,
		research:        research,
		manager:         manager,
		historySvc:      historySvc,
		defaultStrategy: defaultStrategy,
		cache:           cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Profile CRUD
	mux.HandleFunc("POST /api/v1/profiles", h.handleCreateProfile)
	mux.HandleFunc("GET /api/v1/profiles", h.handleListProfiles)
	mux.HandleFunc("GET /api/v1/profiles/{profileID}", h.handleGetProfile)
	mux.HandleFunc("DELETE /api/v1/profiles/{profileID}", h.handleDeleteProfile)
	mux.HandleFunc("POST /api/v1/profiles/{profileID}/duplicate", h.handleDuplicateProfile)
	mux.HandleFunc("POST /api/v1/profiles/{profileID}/backup", h.handleBackupProfile)

	// Profile mutations
	mux.HandleFunc("PUT /api/v1/profiles/{profileID}/levels/{upgradeID}", h.handleSetLevel)
	mux.HandleFunc("PUT /api/v1/profiles/{profileID}/research/{researchID}", h.handleSetResearchLevel)
	mux.HandleFunc("PUT /api/v1/profiles/{profileID}/coins", h.handleSetCoins)
	mux.HandleFunc("PUT /api/v1/profiles/{profileID}/weights", h.handleSetWeights)

	// Ranking and run history
	mux.HandleFunc("GET /api/v1/profiles/{profileID}/rank", h.handleRank)
	mux.HandleFunc("GET /api/v1/profiles/{profileID}/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/{runID}", h.handleGetRun)

	// Catalog
	mux.HandleFunc("GET /api/v1/catalog", h.handleGetCatalog)
	mux.HandleFunc("GET /api/v1/catalog/upgrades/{upgradeID}", h.handleGetUpgrade)
	mux.HandleFunc("POST /api/v1/catalog/validate", h.handleValidateCatalog)
	mux.HandleFunc("GET /api/v1/strategies", h.handleListStrategies)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
