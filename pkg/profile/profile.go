// Package profile defines one player's saved state: current upgrade levels,
// available coins, and scoring preferences. The ranking engines only ever see
// an immutable snapshot; every mutation produces a new version.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeightMin and WeightMax bound every category weight. Negative weights are
// never allowed: a zero weight suppresses a category, it must not invert it.
const (
	WeightMin     = 0.0
	WeightMax     = 2.0
	NeutralWeight = 1.0
)

// Weights maps upgrade categories to user-adjustable multipliers.
// Lookup never fails: unknown categories get the neutral 1.0, so a catalog
// update that introduces a new category is never silently zeroed out.
type Weights map[string]float64

// NewWeights returns a neutral weight set for the given categories.
func NewWeights(categories []string) Weights {
	w := make(Weights, len(categories))
	for _, c := range categories {
		w[c] = NeutralWeight
	}
	return w
}

// For returns the clamped weight for a category, or 1.0 if unknown.
func (w Weights) For(category string) float64 {
	v, ok := w[category]
	if !ok {
		return NeutralWeight
	}
	return clampWeight(v)
}

// Set stores a clamped weight for a category, returning a new Weights.
func (w Weights) Set(category string, value float64) Weights {
	out := w.clone()
	out[category] = clampWeight(value)
	return out
}

// Clamped returns a copy with every value forced into [WeightMin, WeightMax].
func (w Weights) Clamped() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = clampWeight(v)
	}
	return out
}

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func clampWeight(v float64) float64 {
	if v < WeightMin {
		return WeightMin
	}
	if v > WeightMax {
		return WeightMax
	}
	return v
}

// Profile is one player's saved state. Treat values as immutable: the With*
// methods return an updated copy with a fresh UpdatedAt timestamp.
type Profile struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Coins          int64          `json:"available_coins"`
	Levels         map[string]int `json:"levels"`          // upgrade id -> current level
	ResearchLevels map[string]int `json:"research_levels"` // research id -> current level
	Weights        Weights        `json:"weights"`
	Tags           []string       `json:"tags,omitempty"` // free-form build labels
}

// New creates a profile with a fresh id and neutral defaults.
func New(name string, categories []string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		CreatedAt:      now,
		UpdatedAt:      now,
		Levels:         make(map[string]int),
		ResearchLevels: make(map[string]int),
		Weights:        NewWeights(categories),
	}
}

// Level returns the current level for an upgrade, defaulting to 0.
func (p *Profile) Level(upgradeID string) int {
	return p.Levels[upgradeID]
}

// ResearchLevel returns the current level for a research track, defaulting to 0.
func (p *Profile) ResearchLevel(researchID string) int {
	return p.ResearchLevels[researchID]
}

// WithLevel returns a copy with the upgrade at the given level.
// Negative levels clamp to 0; a level of 0 removes the entry.
func (p *Profile) WithLevel(upgradeID string, level int) *Profile {
	if level < 0 {
		level = 0
	}
	out := p.clone()
	if level == 0 {
		delete(out.Levels, upgradeID)
	} else {
		out.Levels[upgradeID] = level
	}
	return out
}

// WithResearchLevel returns a copy with the research track at the given level.
func (p *Profile) WithResearchLevel(researchID string, level int) *Profile {
	if level < 0 {
		level = 0
	}
	out := p.clone()
	if level == 0 {
		delete(out.ResearchLevels, researchID)
	} else {
		out.ResearchLevels[researchID] = level
	}
	return out
}

// WithCoins returns a copy with the coin balance set. Negative clamps to 0.
func (p *Profile) WithCoins(coins int64) *Profile {
	if coins < 0 {
		coins = 0
	}
	out := p.clone()
	out.Coins = coins
	return out
}

// WithWeights returns a copy with the given weights, clamped.
func (p *Profile) WithWeights(w Weights) *Profile {
	out := p.clone()
	out.Weights = w.Clamped()
	return out
}

// Touched returns an otherwise identical copy with a fresh UpdatedAt.
func (p *Profile) Touched() *Profile {
	return p.clone()
}

// WithName returns a copy renamed to the given (trimmed) name.
func (p *Profile) WithName(name string) *Profile {
	out := p.clone()
	out.Name = strings.TrimSpace(name)
	return out
}

// Normalize repairs a profile loaded from an external source: nil maps become
// empty, negative levels and coins clamp, weights clamp. Invariants hold for
// any profile that passed through here, whatever the document said.
func (p *Profile) Normalize() {
	if p.Levels == nil {
		p.Levels = make(map[string]int)
	}
	if p.ResearchLevels == nil {
		p.ResearchLevels = make(map[string]int)
	}
	if p.Weights == nil {
		p.Weights = Weights{}
	}
	for id, lvl := range p.Levels {
		if lvl <= 0 {
			delete(p.Levels, id)
		}
	}
	for id, lvl := range p.ResearchLevels {
		if lvl <= 0 {
			delete(p.ResearchLevels, id)
		}
	}
	if p.Coins < 0 {
		p.Coins = 0
	}
	p.Weights = p.Weights.Clamped()
}

func (p *Profile) clone() *Profile {
	out := &Profile{
		ID:             p.ID,
		Name:           p.Name,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      time.Now().UTC(),
		Coins:          p.Coins,
		Levels:         make(map[string]int, len(p.Levels)),
		ResearchLevels: make(map[string]int, len(p.ResearchLevels)),
		Weights:        p.Weights.clone(),
		Tags:           append([]string(nil), p.Tags...),
	}
	for k, v := range p.Levels {
		out.Levels[k] = v
	}
	for k, v := range p.ResearchLevels {
		out.ResearchLevels[k] = v
	}
	return out
}
