package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/towerscope/towerscope/internal/history"
	"github.com/towerscope/towerscope/pkg/advisor"
)

type rankResponse struct {
	Strategy        string                  `json:"strategy"`
	StrategyVersion string                  `json:"strategy_version"`
	ProfileID       string                  `json:"profile_id"`
	ProfileName     string                  `json:"profile_name"`
	Coins           int64                   `json:"available_coins"`
	Results         []advisor.RankedUpgrade `json:"results"`
	Explanations    []string                `json:"explanations,omitempty"`
	RunID           string                  `json:"run_id,omitempty"`
}

// handleRank computes recommendations for a profile.
// Query params: strategy (default from config), explain=true, limit=N.
func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	p, err := h.manager.Get(r.Context(), r.PathValue("profileID"))
	if err != nil {
		writeProfileError(w, err)
		return
	}

	name := r.URL.Query().Get("strategy")
	if name == "" {
		name = h.defaultStrategy
	}
	strategy, err := advisor.ByName(name, h.research)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := RankKey(p.ID, strategy.Name(), p.UpdatedAt)
	results := h.cache.Get(key)
	if results == nil {
		results = strategy.Rank(h.catalog, p)
		h.cache.Put(key, results)
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if limit < len(results) {
			results = results[:limit]
		}
	}

	resp := rankResponse{
		Strategy:        strategy.Name(),
		StrategyVersion: strategy.Version(),
		ProfileID:       p.ID,
		ProfileName:     p.Name,
		Coins:           p.Coins,
		Results:         results,
	}
	if resp.Results == nil {
		resp.Results = []advisor.RankedUpgrade{}
	}

	if r.URL.Query().Get("explain") == "true" {
		for _, ru := range resp.Results {
			resp.Explanations = append(resp.Explanations, strategy.Explain(ru))
		}
	}

	if h.historySvc != nil {
		run, err := h.historySvc.RecordRun(r.Context(), p.ID, p.Name, strategy, p.Coins, resp.Results)
		if err != nil {
			// Recording is best-effort; the ranking itself still succeeds.
			log.Printf("record rank run for profile %s: %v", p.ID, err)
		} else {
			resp.RunID = run.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.historySvc == nil {
		writeError(w, http.StatusNotImplemented, "run history requires a database")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.historySvc.ListRuns(r.Context(), r.PathValue("profileID"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.historySvc == nil {
		writeError(w, http.StatusNotImplemented, "run history requires a database")
		return
	}

	run, err := h.historySvc.GetRun(r.Context(), r.PathValue("runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
