package api

import (
	"io"
	"net/http"

	"github.com/towerscope/towerscope/pkg/advisor"
	"github.com/towerscope/towerscope/pkg/catalog"
)

type catalogSummary struct {
	Version     string         `json:"version"`
	DataVersion string         `json:"data_version"`
	Source      string         `json:"source"`
	Categories  []string       `json:"categories"`
	Counts      map[string]int `json:"upgrade_counts"`
	Total       int            `json:"total_upgrades"`
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int)
	for _, cat := range h.catalog.Categories() {
		counts[cat] = len(h.catalog.ByCategory(cat))
	}
	writeJSON(w, http.StatusOK, catalogSummary{
		Version:     h.catalog.Version,
		DataVersion: h.catalog.DataVersion,
		Source:      h.catalog.Source,
		Categories:  h.catalog.Categories(),
		Counts:      counts,
		Total:       len(h.catalog.Upgrades),
	})
}

func (h *Handler) handleGetUpgrade(w http.ResponseWriter, r *http.Request) {
	u := h.catalog.Get(r.PathValue("upgradeID"))
	if u == nil {
		writeError(w, http.StatusNotFound, "upgrade not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// maxCatalogBytes bounds uploaded catalog documents.
const maxCatalogBytes = 16 << 20

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// handleValidateCatalog runs the full validator against an uploaded catalog
// document without installing it.
func (h *Handler) handleValidateCatalog(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxCatalogBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	report := catalog.ValidateRaw(data)
	if report.OK() {
		c, parseErr := catalog.Parse(data, h.catalog.Categories())
		if parseErr != nil {
			report.Errors = append(report.Errors, parseErr.Error())
		} else {
			report = catalog.Validate(c, h.catalog.Categories())
		}
	}

	resp := validateResponse{
		Valid:    report.OK(),
		Errors:   report.Errors,
		Warnings: report.Warnings,
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type strategyInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Default bool   `json:"default"`
}

func (h *Handler) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	var out []strategyInfo
	for _, s := range advisor.DefaultStrategies(h.research) {
		out = append(out, strategyInfo{
			Name:    s.Name(),
			Version: s.Version(),
			Default: s.Name() == h.defaultStrategy,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
