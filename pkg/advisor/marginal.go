package advisor

import "github.com/towerscope/towerscope/pkg/catalog"

// Marginal is the result of scoring one upgrade's next level.
type Marginal struct {
	Score         float64 // Benefit / Cost, or 0 for maxed / degenerate cost
	Cost          int64   // coins for the next level (0 when maxed)
	CurrentEffect float64
	NextEffect    float64
	Benefit       float64 // NextEffect - CurrentEffect
}

// ComputeMarginal computes the marginal-benefit-per-coin score for advancing
// an upgrade by one level. Pure and total: it never panics for any
// currentLevel >= 0, including levels beyond the catalog's current max
// (possible after a catalog downgrade against an old profile).
func ComputeMarginal(u *catalog.UpgradeDefinition, currentLevel int) Marginal {
	// Maxed check first, before any level indexing.
	if currentLevel >= u.MaxLevel {
		eff := u.BaseValue
		if len(u.Levels) > 0 {
			eff = u.Levels[len(u.Levels)-1].CumulativeEffect
		}
		return Marginal{CurrentEffect: eff, NextEffect: eff}
	}

	currentEffect := u.BaseValue
	if currentLevel > 0 {
		currentEffect = u.Levels[currentLevel-1].CumulativeEffect
	}

	// Levels is 0-indexed: index i holds data for level i+1, so the data
	// for currentLevel+1 lives at index currentLevel.
	next := u.Levels[currentLevel]
	benefit := next.CumulativeEffect - currentEffect

	m := Marginal{
		Cost:          next.Cost,
		CurrentEffect: currentEffect,
		NextEffect:    next.CumulativeEffect,
		Benefit:       benefit,
	}

	// Zero or negative cost cannot occur with validated data; report the
	// computed values but refuse to divide.
	if next.Cost <= 0 {
		return m
	}

	m.Score = benefit / float64(next.Cost)
	return m
}

// effectAt returns the upgrade's cumulative effect at the given level,
// clamping levels beyond the catalog's max to the final recorded value.
func effectAt(u *catalog.UpgradeDefinition, level int) float64 {
	if level <= 0 || len(u.Levels) == 0 {
		return u.BaseValue
	}
	if level > len(u.Levels) {
		level = len(u.Levels)
	}
	return u.Levels[level-1].CumulativeEffect
}
