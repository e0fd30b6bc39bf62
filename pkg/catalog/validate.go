package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// deltaTolerance is the allowed absolute mismatch between a declared
// effect_delta and the recomputed difference of consecutive cumulative
// effects. Source data is rounded, so small drift is expected.
const deltaTolerance = 1e-6

// minExpectedUpgrades is the heuristic floor below which the catalog is
// suspiciously small (the full workshop has 20-30 upgrades).
const minExpectedUpgrades = 10

// Report collects validation errors and warnings for a catalog.
// The catalog is usable only if Errors is empty; Warnings never block.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether the catalog passed all blocking checks.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary renders the report for human review.
func (r *Report) Summary() string {
	var b strings.Builder
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	if r.OK() && len(r.Warnings) == 0 {
		b.WriteString("All checks passed.\n")
	}
	return b.String()
}

// Validate runs the full cross-field integrity check over a parsed catalog.
// expectedCategories lists the categories that should each have at least one
// representative; missing coverage is a warning, never an error, because a
// future catalog may intentionally drop a category.
func Validate(c *Catalog, expectedCategories []string) *Report {
	report := &Report{}

	if len(c.Upgrades) == 0 {
		report.errorf("no upgrades in catalog")
		return report
	}

	idsSeen := make(map[string]bool)
	namesSeen := make(map[string]bool)
	orderSeen := make(map[string]map[int]bool)

	for i := range c.Upgrades {
		u := &c.Upgrades[i]

		if idsSeen[u.ID] {
			report.errorf("duplicate upgrade id: %s", u.ID)
		}
		idsSeen[u.ID] = true

		if namesSeen[u.Name] {
			report.warnf("duplicate upgrade name: %s", u.Name)
		}
		namesSeen[u.Name] = true

		orders := orderSeen[u.Category]
		if orders == nil {
			orders = make(map[int]bool)
			orderSeen[u.Category] = orders
		}
		if orders[u.DisplayOrder] {
			report.warnf("duplicate display_order %d in %s", u.DisplayOrder, u.Category)
		}
		orders[u.DisplayOrder] = true

		validateUpgrade(u, report)
	}

	if len(c.Upgrades) < minExpectedUpgrades {
		report.warnf("only %d upgrades — expected at least %d", len(c.Upgrades), minExpectedUpgrades)
	}

	categories := make(map[string]bool)
	for i := range c.Upgrades {
		categories[c.Upgrades[i].Category] = true
	}
	for _, expected := range expectedCategories {
		if !categories[expected] {
			report.warnf("missing expected category: %s", expected)
		}
	}

	return report
}

// validateUpgrade checks one upgrade's level data.
func validateUpgrade(u *UpgradeDefinition, report *Report) {
	if !isFinite(u.BaseValue) {
		report.errorf("%s: base_value is not finite", u.ID)
	}
	if u.MaxLevel < 1 {
		report.errorf("%s: max_level must be >= 1, got %d", u.ID, u.MaxLevel)
	}

	if len(u.Levels) != u.MaxLevel {
		report.errorf("%s: level count %d != max_level %d", u.ID, len(u.Levels), u.MaxLevel)
	}
	if len(u.Levels) == 0 {
		report.errorf("%s: no levels defined", u.ID)
		return
	}

	// Continuity: levels must be exactly 1..max_level with no gaps or repeats.
	actual := make(map[int]bool, len(u.Levels))
	contiguous := true
	for i := range u.Levels {
		lv := &u.Levels[i]
		actual[lv.Level] = true
		if lv.Level != i+1 {
			contiguous = false
		}
	}
	if !contiguous {
		var missing, extra []int
		for n := 1; n <= u.MaxLevel; n++ {
			if !actual[n] {
				missing = append(missing, n)
			}
		}
		for n := range actual {
			if n < 1 || n > u.MaxLevel {
				extra = append(extra, n)
			}
		}
		sort.Ints(extra)
		if len(missing) > 0 {
			report.errorf("%s: missing levels: %v", u.ID, missing)
		}
		if len(extra) > 0 {
			report.errorf("%s: unexpected levels: %v", u.ID, extra)
		}
		if len(missing) == 0 && len(extra) == 0 {
			report.errorf("%s: levels out of order", u.ID)
		}
	}

	for i := range u.Levels {
		lv := &u.Levels[i]
		if !isFinite(lv.CumulativeEffect) {
			report.errorf("%s level %d: cumulative_effect is not finite", u.ID, lv.Level)
		}
		if !isFinite(lv.EffectDelta) {
			report.errorf("%s level %d: effect_delta is not finite", u.ID, lv.Level)
		}
		if lv.Cost <= 0 {
			report.errorf("%s level %d: cost must be positive, got %d", u.ID, lv.Level, lv.Cost)
		}
	}

	// Costs strictly increase level-to-level. This is the one hard
	// monotonicity rule; effect monotonicity below is deliberately soft.
	for i := 1; i < len(u.Levels); i++ {
		prev, curr := &u.Levels[i-1], &u.Levels[i]
		if curr.Cost <= prev.Cost {
			report.errorf("%s: cost not increasing at level %d (%d -> %d)",
				u.ID, curr.Level, prev.Cost, curr.Cost)
		}
	}

	// Cumulative effect may legitimately plateau or dip from rounding in the
	// source data, so a decrease is only a warning.
	for i := 1; i < len(u.Levels); i++ {
		prev, curr := &u.Levels[i-1], &u.Levels[i]
		if curr.CumulativeEffect < prev.CumulativeEffect {
			report.warnf("%s: cumulative_effect decreased at level %d (%g -> %g)",
				u.ID, curr.Level, prev.CumulativeEffect, curr.CumulativeEffect)
		}
	}

	// Declared deltas should match recomputed differences. Mismatches are
	// copy/paste or rounding defects in the source data, not blockers.
	for i := range u.Levels {
		lv := &u.Levels[i]
		var expected float64
		if i == 0 {
			expected = lv.CumulativeEffect - u.BaseValue
		} else {
			expected = lv.CumulativeEffect - u.Levels[i-1].CumulativeEffect
		}
		if math.Abs(lv.EffectDelta-expected) > deltaTolerance {
			report.warnf("%s level %d: effect_delta %g != expected %.6f",
				u.ID, lv.Level, lv.EffectDelta, expected)
		}
	}
}

// hardErrors returns only the blocking subset of a catalog's problems,
// suitable for refusing to construct the catalog at load time.
func hardErrors(c *Catalog, expectedCategories []string) []string {
	return Validate(c, expectedCategories).Errors
}

// ValidateRaw checks the untyped JSON document before it is parsed into
// typed records. Its one job is catching numeric fields that arrived as
// text — acquired data often carries abbreviations like "1.2M" that must
// be converted upstream, and Go's unmarshaller would reject them with a
// far less useful message.
func ValidateRaw(data []byte) *Report {
	report := &Report{}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		report.errorf("top-level document must be a JSON object: %v", err)
		return report
	}

	var upgrades []map[string]json.RawMessage
	if err := json.Unmarshal(doc["upgrades"], &upgrades); err != nil {
		report.errorf("'upgrades' must be a list of objects")
		return report
	}

	for i, item := range upgrades {
		name := fmt.Sprintf("upgrades[%d]", i)
		var n string
		if err := json.Unmarshal(item["name"], &n); err == nil && n != "" {
			name = n
		}

		var levels []map[string]json.RawMessage
		if err := json.Unmarshal(item["levels"], &levels); err != nil {
			report.errorf("%s: 'levels' must be a list of objects", name)
			continue
		}

		for j, lv := range levels {
			for _, field := range []string{"cost", "cumulative_effect", "effect_delta"} {
				raw, ok := lv[field]
				if !ok {
					continue
				}
				var s string
				if err := json.Unmarshal(raw, &s); err == nil {
					report.errorf("%s levels[%d].%s: string value %q — expected numeric",
						name, j, field, s)
				}
			}
		}
	}

	return report
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
