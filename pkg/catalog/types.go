// Package catalog defines the immutable upgrade dataset for Towerscope.
// A Catalog is loaded once at startup, hard-validated, and shared read-only
// across every ranking request.
package catalog

// UpgradeLevel is one rung of an upgrade's progression ladder.
// Immutable once constructed.
type UpgradeLevel struct {
	Level            int     `json:"level"`             // 1-indexed
	Cost             int64   `json:"cost"`              // coins to reach this level from the previous one
	CumulativeEffect float64 `json:"cumulative_effect"` // total effect once this level is reached
	EffectDelta      float64 `json:"effect_delta"`      // gain over the previous level (or base value)
}

// UpgradeDefinition is the full progression curve for one upgrade.
type UpgradeDefinition struct {
	ID           string         `json:"id"`   // stable snake_case identifier
	Name         string         `json:"name"` // display name
	Category     string         `json:"category"`
	EffectUnit   string         `json:"effect_unit"`
	EffectType   string         `json:"effect_type"` // "additive" or "multiplicative"
	BaseValue    float64        `json:"base_value"`  // effect at level 0
	MaxLevel     int            `json:"max_level"`
	DisplayOrder int            `json:"display_order"`
	Levels       []UpgradeLevel `json:"levels"` // index i holds data for level i+1
}

// LevelData returns the per-level record for the given 1-indexed level,
// or nil if the level is out of range.
func (u *UpgradeDefinition) LevelData(level int) *UpgradeLevel {
	if level < 1 || level > len(u.Levels) {
		return nil
	}
	return &u.Levels[level-1]
}

// Catalog is the full set of upgrade definitions plus provenance metadata.
// Immutable after load.
type Catalog struct {
	Version     string              `json:"version"`      // data version / extraction date
	DataVersion string              `json:"data_version"` // game version this data represents
	Source      string              `json:"source"`       // where the data came from
	Upgrades    []UpgradeDefinition `json:"upgrades"`
}

// Get returns the upgrade with the given id, or nil if not found.
func (c *Catalog) Get(id string) *UpgradeDefinition {
	for i := range c.Upgrades {
		if c.Upgrades[i].ID == id {
			return &c.Upgrades[i]
		}
	}
	return nil
}

// ByCategory returns all upgrades belonging to the given category.
func (c *Catalog) ByCategory(category string) []*UpgradeDefinition {
	var out []*UpgradeDefinition
	for i := range c.Upgrades {
		if c.Upgrades[i].Category == category {
			out = append(out, &c.Upgrades[i])
		}
	}
	return out
}

// Categories returns the unique categories present in the catalog, ordered
// by the lowest display order seen within each.
func (c *Catalog) Categories() []string {
	seen := make(map[string]int)
	var cats []string
	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		if best, ok := seen[u.Category]; !ok || u.DisplayOrder < best {
			if !ok {
				cats = append(cats, u.Category)
			}
			seen[u.Category] = u.DisplayOrder
		}
	}
	// insertion order is discovery order; sort by lowest display order
	for i := 1; i < len(cats); i++ {
		for j := i; j > 0 && seen[cats[j]] < seen[cats[j-1]]; j-- {
			cats[j], cats[j-1] = cats[j-1], cats[j]
		}
	}
	return cats
}

// IDs returns all upgrade ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Upgrades))
	for i := range c.Upgrades {
		ids[i] = c.Upgrades[i].ID
	}
	return ids
}

// ResearchLevel is one rung of a lab research track.
type ResearchLevel struct {
	Level int     `json:"level"`
	Value float64 `json:"value"` // multiplier or flat bonus, per BoostType
}

// ResearchDefinition is a secondary, separately progressed boost that scales
// or adds to a specific upgrade's effect value.
type ResearchDefinition struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BoostType string          `json:"boost_type"` // "multiplicative" or "additive"
	MaxLevel  int             `json:"max_level"`
	Levels    []ResearchLevel `json:"levels"`
}

// ResearchSet is the full lab research dataset. Immutable after load.
type ResearchSet struct {
	Researches []ResearchDefinition `json:"researches"`
}

// Get returns the research with the given id, or nil.
func (r *ResearchSet) Get(id string) *ResearchDefinition {
	if r == nil {
		return nil
	}
	for i := range r.Researches {
		if r.Researches[i].ID == id {
			return &r.Researches[i]
		}
	}
	return nil
}

// Value returns the research value for the given id at the given level.
//
// The neutral fallback depends on whether the research is known at all:
// an unknown id yields the multiplicative neutral 1.0, while a known
// research at level 0 yields the neutral for its own boost type (1.0
// multiplicative, 0.0 additive). Callers rely on this exact branching;
// do not collapse the two cases.
func (r *ResearchSet) Value(id string, level int) float64 {
	research := r.Get(id)
	if research == nil {
		return 1.0
	}
	if level <= 0 {
		return neutralFor(research.BoostType)
	}
	idx := level
	if research.MaxLevel < idx {
		idx = research.MaxLevel
	}
	if len(research.Levels) < idx {
		idx = len(research.Levels)
	}
	if idx < 1 {
		return neutralFor(research.BoostType)
	}
	return research.Levels[idx-1].Value
}

func neutralFor(boostType string) float64 {
	if boostType == "additive" {
		return 0.0
	}
	return 1.0
}
