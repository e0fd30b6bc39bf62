package advisor_test

import (
	"strings"
	"testing"

	"github.com/towerscope/towerscope/pkg/advisor"
	"github.com/towerscope/towerscope/pkg/catalog"
)

func TestReferenceRanksAllUpgrades(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	results := s.Rank(c, emptyProfile())
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
}

func TestReferenceMaxedProfileEmpty(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	results := s.Rank(c, maxedProfile(c))
	if len(results) != 0 {
		t.Errorf("expected no results for maxed profile, got %d", len(results))
	}
}

func TestReferenceScoresDamageByCompositeGain(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	// Baseline at level 0: damage=0, so the composite metric is 0.
	// Buying damage level 1 lifts the effect to 5; with attack_speed 1.0
	// and crit_factor 1.2 at chance 0, the composite becomes 5.
	// Score = (5 - 0) / 50.
	results := s.Rank(c, emptyProfile())
	var damage *advisor.RankedUpgrade
	for i := range results {
		if results[i].UpgradeID == "damage" {
			damage = &results[i]
		}
	}
	if damage == nil {
		t.Fatal("damage missing from results")
	}
	want := 5.0 / 50
	if damage.Score != want {
		t.Errorf("damage score: got %v, want %v", damage.Score, want)
	}
}

func TestReferenceAttackSpeedWorthlessAtZeroDamage(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	// With damage at 0 the composite stays 0 no matter the attack speed,
	// so attack_speed's composite gain is 0.
	results := s.Rank(c, emptyProfile())
	for _, r := range results {
		if r.UpgradeID == "attack_speed" && r.Score != 0 {
			t.Errorf("attack_speed score at zero damage: got %v, want 0", r.Score)
		}
	}
}

func TestReferenceNonContributingFallsBackToMarginal(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	// health does not feed the composite metric; it keeps its raw
	// marginal score of 10/75.
	results := s.Rank(c, emptyProfile())
	for _, r := range results {
		if r.UpgradeID == "health" {
			want := 10.0 / 75
			if diff := r.Score - want; diff > 1e-12 || diff < -1e-12 {
				t.Errorf("health score: got %v, want %v", r.Score, want)
			}
			return
		}
	}
	t.Fatal("health missing from results")
}

func TestReferenceResearchBoostRaisesScore(t *testing.T) {
	c := loadTestCatalog(t)
	research := loadTestResearch(t)

	s := &advisor.ReferenceStrategy{Research: research}

	// lab_damage level 1 multiplies the damage effect by 1.1, so the
	// composite gain for damage level 1 grows from 5 to 5.5.
	unboosted := emptyProfile()
	boosted := emptyProfile()
	boosted.ResearchLevels["lab_damage"] = 1

	scoreOf := func(results []advisor.RankedUpgrade, id string) float64 {
		for _, r := range results {
			if r.UpgradeID == id {
				return r.Score
			}
		}
		t.Fatalf("%s missing from results", id)
		return 0
	}

	base := scoreOf(s.Rank(c, unboosted), "damage")
	lifted := scoreOf(s.Rank(c, boosted), "damage")
	if lifted <= base {
		t.Errorf("research boost should raise the damage score: %v <= %v", lifted, base)
	}
	want := 5.5 / 50
	if lifted != want {
		t.Errorf("boosted damage score: got %v, want %v", lifted, want)
	}
}

func TestReferenceResearchAtLevelZeroIsNeutral(t *testing.T) {
	c := loadTestCatalog(t)
	research := loadTestResearch(t)
	s := &advisor.ReferenceStrategy{Research: research}

	// Known research at level 0 must behave exactly like no research.
	bare := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	r1 := s.Rank(c, emptyProfile())
	r2 := bare.Rank(c, emptyProfile())
	if len(r1) != len(r2) {
		t.Fatalf("lengths differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].UpgradeID != r2[i].UpgradeID || r1[i].Score != r2[i].Score {
			t.Errorf("position %d differs with neutral research: %s(%v) vs %s(%v)",
				i, r1[i].UpgradeID, r1[i].Score, r2[i].UpgradeID, r2[i].Score)
		}
	}
}

func TestReferenceExplain(t *testing.T) {
	c := loadTestCatalog(t)
	s := &advisor.ReferenceStrategy{Research: &catalog.ResearchSet{}}

	results := s.Rank(c, emptyProfile())
	var damage advisor.RankedUpgrade
	for _, r := range results {
		if r.UpgradeID == "damage" {
			damage = r
		}
	}
	text := s.Explain(damage)
	if !strings.Contains(text, "Composite damage gain") {
		t.Error("explanation for a contributing upgrade should show the composite gain")
	}
	if !strings.Contains(text, "reference") {
		t.Error("explanation should name the strategy")
	}
}

func TestDefaultStrategiesNilResearch(t *testing.T) {
	strategies := advisor.DefaultStrategies(nil)
	if len(strategies) != 3 {
		t.Fatalf("expected 3 strategies, got %d", len(strategies))
	}
	c := loadTestCatalog(t)
	for _, s := range strategies {
		// Must not panic without research data.
		_ = s.Rank(c, emptyProfile())
	}
}
