package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/profile"
)

// damageStats maps the upgrade ids that jointly determine the composite
// damage metric to their slot in the damage state.
var damageStats = map[string]func(*damageState, float64){
	"damage":            func(st *damageState, v float64) { st.Damage = v },
	"attack_speed":      func(st *damageState, v float64) { st.AttackSpeed = v },
	"crit_chance":       func(st *damageState, v float64) { st.CritChance = v },
	"crit_factor":       func(st *damageState, v float64) { st.CritFactor = v },
	"multishot_chance":  func(st *damageState, v float64) { st.MultishotChance = v },
	"multishot_targets": func(st *damageState, v float64) { st.MultishotTargets = v },
	"rapid_fire_chance": func(st *damageState, v float64) { st.RapidFireChance = v },
	"bounce_chance":     func(st *damageState, v float64) { st.BounceChance = v },
	"bounce_targets":    func(st *damageState, v float64) { st.BounceTargets = v },
}

// researchID returns the lab research track that boosts an upgrade.
func researchID(upgradeID string) string { return "lab_" + upgradeID }

// ReferenceStrategy replicates the reference calculator's logic: upgrades
// feeding the composite damage metric are scored by their marginal
// contribution to that metric rather than by their own raw effect, with lab
// research boosts applied on top of each workshop value. Everything outside
// the contributing set falls back to the raw marginal score.
type ReferenceStrategy struct {
	Research *catalog.ResearchSet
}

func (s *ReferenceStrategy) Name() string    { return "reference" }
func (s *ReferenceStrategy) Version() string { return "1.0" }

// boosted applies the lab research boost for an upgrade to a workshop value.
// Unknown research leaves the value untouched (multiplicative neutral).
func (s *ReferenceStrategy) boosted(upgradeID string, value float64, p *profile.Profile) float64 {
	rid := researchID(upgradeID)
	research := s.Research.Get(rid)
	if research == nil {
		return value
	}
	boost := s.Research.Value(rid, p.ResearchLevel(rid))
	if research.BoostType == "additive" {
		return value + boost
	}
	return value * boost
}

// baselineState builds the damage state from the profile's current levels.
func (s *ReferenceStrategy) baselineState(c *catalog.Catalog, p *profile.Profile) damageState {
	st := neutralDamageState()
	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		set, ok := damageStats[u.ID]
		if !ok {
			continue
		}
		set(&st, s.boosted(u.ID, effectAt(u, p.Level(u.ID)), p))
	}
	return st
}

func (s *ReferenceStrategy) Rank(c *catalog.Catalog, p *profile.Profile) []RankedUpgrade {
	baseState := s.baselineState(c, p)
	baseline := computeDamage(baseState)

	var out []RankedUpgrade
	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		current := p.Level(u.ID)
		if current >= u.MaxLevel {
			continue
		}

		m := ComputeMarginal(u, current)

		set, contributing := damageStats[u.ID]
		if !contributing {
			if m.Score <= 0 {
				continue
			}
			out = append(out, newRanked(u, p, m, m.Score, s.Name()))
			continue
		}

		if m.Cost <= 0 {
			continue
		}

		// Re-run the composite with only this stat advanced one level.
		next := baseState
		set(&next, s.boosted(u.ID, m.NextEffect, p))
		gain := computeDamage(next).Sub(baseline)
		score := gain.Div(decimal.NewFromInt(m.Cost)).InexactFloat64()

		out = append(out, newRanked(u, p, m, score, s.Name()))
	}

	sortRanked(out)
	return out
}

func (s *ReferenceStrategy) Explain(r RankedUpgrade) string {
	lines := []string{
		fmt.Sprintf("%s (level %d → %d)", r.UpgradeName, r.CurrentLevel, r.NextLevel),
		fmt.Sprintf("  Cost: %s coins", commas(r.Cost)),
		fmt.Sprintf("  Effect: %g → %g", r.CurrentEffect, r.NextEffect),
		fmt.Sprintf("  Marginal Benefit: %g", r.MarginalBenefit),
	}
	if _, contributing := damageStats[r.UpgradeID]; contributing {
		gain := r.Score * float64(r.Cost)
		lines = append(lines,
			fmt.Sprintf("  Composite damage gain: %s", fmtScore(gain)),
			fmt.Sprintf("  Score: %s / %d = %s", fmtScore(gain), r.Cost, fmtScore(r.Score)),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("  Score: %g / %d = %s", r.MarginalBenefit, r.Cost, fmtScore(r.Score)))
	}
	lines = append(lines, fmt.Sprintf("  Mode: %s", s.Name()))
	return strings.Join(lines, "\n")
}
