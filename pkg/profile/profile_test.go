package profile_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/towerscope/towerscope/pkg/profile"
)

var categories = []string{"attack", "defense", "utility"}

func TestNewProfileDefaults(t *testing.T) {
	p := profile.New("  Main Run  ", categories)

	if p.ID == "" {
		t.Error("expected a generated id")
	}
	if p.Name != "Main Run" {
		t.Errorf("name should be trimmed, got %q", p.Name)
	}
	if p.Coins != 0 {
		t.Errorf("new profile should start with 0 coins, got %d", p.Coins)
	}
	if len(p.Levels) != 0 {
		t.Errorf("new profile should have no levels, got %v", p.Levels)
	}
	for _, c := range categories {
		if w := p.Weights.For(c); w != profile.NeutralWeight {
			t.Errorf("weight[%s]: got %v, want neutral", c, w)
		}
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Error("created and updated timestamps should match on creation")
	}
}

func TestWeightsForUnknownCategory(t *testing.T) {
	w := profile.NewWeights(categories)
	if got := w.For("lasers"); got != profile.NeutralWeight {
		t.Errorf("unknown category: got %v, want neutral 1.0", got)
	}
}

func TestWeightsSetClamps(t *testing.T) {
	w := profile.Weights{}
	if got := w.Set("attack", 5).For("attack"); got != profile.WeightMax {
		t.Errorf("over-max weight: got %v, want %v", got, profile.WeightMax)
	}
	if got := w.Set("attack", -1).For("attack"); got != profile.WeightMin {
		t.Errorf("negative weight: got %v, want %v", got, profile.WeightMin)
	}
	if len(w) != 0 {
		t.Error("Set must not mutate the receiver")
	}
}

func TestWithLevel(t *testing.T) {
	p := profile.New("test", categories)

	p2 := p.WithLevel("damage", 3)
	if p2.Level("damage") != 3 {
		t.Errorf("level: got %d, want 3", p2.Level("damage"))
	}
	if p.Level("damage") != 0 {
		t.Error("WithLevel must not mutate the original")
	}

	// Zero removes the entry; negatives clamp to zero.
	p3 := p2.WithLevel("damage", 0)
	if _, ok := p3.Levels["damage"]; ok {
		t.Error("level 0 should remove the entry")
	}
	p4 := p2.WithLevel("damage", -5)
	if _, ok := p4.Levels["damage"]; ok {
		t.Error("negative level should clamp to 0 and remove the entry")
	}
}

func TestWithCoinsClampsNegative(t *testing.T) {
	p := profile.New("test", categories)
	if got := p.WithCoins(-100).Coins; got != 0 {
		t.Errorf("negative coins: got %d, want 0", got)
	}
	if got := p.WithCoins(12345).Coins; got != 12345 {
		t.Errorf("coins: got %d, want 12345", got)
	}
}

func TestWithWeightsClamps(t *testing.T) {
	p := profile.New("test", categories)
	p2 := p.WithWeights(profile.Weights{"attack": 99, "defense": -2})
	if got := p2.Weights.For("attack"); got != profile.WeightMax {
		t.Errorf("attack weight: got %v, want clamped max", got)
	}
	if got := p2.Weights.For("defense"); got != profile.WeightMin {
		t.Errorf("defense weight: got %v, want clamped min", got)
	}
}

func TestTouchedRefreshesUpdatedAt(t *testing.T) {
	p := profile.New("test", categories)
	p2 := p.Touched()
	if p2.UpdatedAt.Before(p.UpdatedAt) {
		t.Error("Touched should refresh UpdatedAt")
	}
	if !p2.CreatedAt.Equal(p.CreatedAt) {
		t.Error("Touched must not change CreatedAt")
	}
}

func TestNormalizeRepairsDocument(t *testing.T) {
	// A hand-edited document can carry any of these defects.
	raw := `{
		"id": "p1", "name": "Broken",
		"available_coins": -50,
		"levels": {"damage": 3, "ghost": -2},
		"research_levels": null,
		"weights": {"attack": 9.5, "defense": -1}
	}`
	var p profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	p.Normalize()

	if p.Coins != 0 {
		t.Errorf("negative coins should clamp to 0, got %d", p.Coins)
	}
	if _, ok := p.Levels["ghost"]; ok {
		t.Error("non-positive levels should be dropped")
	}
	if p.Levels["damage"] != 3 {
		t.Error("valid levels must survive normalization")
	}
	if p.ResearchLevels == nil {
		t.Error("nil research map should become empty")
	}
	if got := p.Weights.For("attack"); got != profile.WeightMax {
		t.Errorf("weight should clamp to max, got %v", got)
	}
	if got := p.Weights.For("defense"); got != profile.WeightMin {
		t.Errorf("weight should clamp to min, got %v", got)
	}
}

func TestJSONFieldNames(t *testing.T) {
	p := profile.New("test", categories)
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"name"`, `"created_at"`, `"updated_at"`,
		`"available_coins"`, `"levels"`, `"research_levels"`, `"weights"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized profile missing field %s", field)
		}
	}
}
