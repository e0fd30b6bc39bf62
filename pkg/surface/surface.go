// Package surface defines output rendering for Towerscope ranking results.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"io"

	"github.com/towerscope/towerscope/pkg/advisor"
)

// RankingView is the renderable form of one ranking call.
type RankingView struct {
	Strategy     string                  `json:"strategy"`
	Version      string                  `json:"version"`
	ProfileName  string                  `json:"profile_name"`
	Coins        int64                   `json:"available_coins"`
	Results      []advisor.RankedUpgrade `json:"results"`
	Explanations []string                `json:"explanations,omitempty"` // parallel to Results when requested
}

// NewRankingView assembles a view from a strategy's output.
func NewRankingView(s advisor.Strategy, profileName string, coins int64, results []advisor.RankedUpgrade, explain bool) *RankingView {
	v := &RankingView{
		Strategy:    s.Name(),
		Version:     s.Version(),
		ProfileName: profileName,
		Coins:       coins,
		Results:     results,
	}
	if explain {
		v.Explanations = make([]string, len(results))
		for i, r := range results {
			v.Explanations[i] = s.Explain(r)
		}
	}
	return v
}

// Renderer produces formatted output from a RankingView.
type Renderer interface {
	// Render writes the formatted ranking to the writer.
	Render(w io.Writer, view *RankingView) error
}
