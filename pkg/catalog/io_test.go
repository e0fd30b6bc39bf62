package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/towerscope/towerscope/pkg/catalog"
)

func TestLoadFixture(t *testing.T) {
	c := loadFixture(t)
	if len(c.Upgrades) != 8 {
		t.Errorf("expected 8 upgrades, got %d", len(c.Upgrades))
	}
	if c.DataVersion == "" {
		t.Error("data_version should survive the round trip")
	}

	u := c.Get("damage")
	if u == nil {
		t.Fatal("damage upgrade missing")
	}
	if u.MaxLevel != 5 || len(u.Levels) != 5 {
		t.Errorf("damage: max_level %d with %d levels", u.MaxLevel, len(u.Levels))
	}
	if got := u.LevelData(1); got == nil || got.Cost != 50 {
		t.Errorf("damage level 1: %+v", got)
	}
	if u.LevelData(0) != nil || u.LevelData(6) != nil {
		t.Error("out-of-range level data should be nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := catalog.Load("testdata/does_not_exist.json", nil); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestParseRejectsBrokenCatalog(t *testing.T) {
	doc := `{"version":"x","data_version":"x","source":"x","upgrades":[
		{"id":"a","name":"A","category":"attack","effect_unit":"flat","effect_type":"additive",
		 "base_value":0,"max_level":2,"display_order":0,
		 "levels":[
		   {"level":1,"cost":100,"cumulative_effect":1,"effect_delta":1},
		   {"level":2,"cost":50,"cumulative_effect":2,"effect_delta":1}]}]}`

	_, err := catalog.Parse([]byte(doc), nil)
	if err == nil {
		t.Fatal("decreasing cost must fail Parse")
	}
	if !strings.Contains(err.Error(), "cost not increasing") {
		t.Errorf("error should explain the problem, got %v", err)
	}
}

func TestParseRejectsStringNumbers(t *testing.T) {
	doc := `{"upgrades":[
		{"id":"a","name":"A","category":"attack","max_level":1,
		 "levels":[{"level":1,"cost":"1.2M","cumulative_effect":1,"effect_delta":1}]}]}`

	_, err := catalog.Parse([]byte(doc), nil)
	if err == nil {
		t.Fatal("string cost must fail Parse")
	}
	if !strings.Contains(err.Error(), "1.2M") {
		t.Errorf("error should quote the string value, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := loadFixture(t)
	path := filepath.Join(t.TempDir(), "catalog.json")

	if err := catalog.Save(path, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := catalog.Load(path, testCategories)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if len(loaded.Upgrades) != len(c.Upgrades) {
		t.Errorf("round trip lost upgrades: %d != %d", len(loaded.Upgrades), len(c.Upgrades))
	}
	if loaded.Get("attack_speed").Levels[2].Cost != 500 {
		t.Error("round trip corrupted level data")
	}
}

func TestLoadResearchMissingFileIsEmpty(t *testing.T) {
	r, err := catalog.LoadResearch("testdata/does_not_exist.json")
	if err != nil {
		t.Fatalf("missing research file must not error: %v", err)
	}
	if len(r.Researches) != 0 {
		t.Errorf("expected empty set, got %d entries", len(r.Researches))
	}
}

func TestLoadResearchFixture(t *testing.T) {
	r, err := catalog.LoadResearch("testdata/test_research.json")
	if err != nil {
		t.Fatalf("LoadResearch: %v", err)
	}
	if len(r.Researches) != 3 {
		t.Errorf("expected 3 research tracks, got %d", len(r.Researches))
	}
}

func TestLoadResearchBadLevelSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research.json")
	doc := `{"researches":[{"id":"lab_x","name":"X","boost_type":"multiplicative",
		"max_level":2,"levels":[{"level":1,"value":1.1},{"level":3,"value":1.2}]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.LoadResearch(path); err == nil {
		t.Fatal("broken level sequence must fail")
	}
}

func TestResearchValueUnknownID(t *testing.T) {
	r, _ := catalog.LoadResearch("testdata/test_research.json")
	// Unknown research defaults to the multiplicative neutral.
	if got := r.Value("lab_unknown", 3); got != 1.0 {
		t.Errorf("unknown research: got %v, want 1.0", got)
	}
}

func TestResearchValueLevelZeroNeutrals(t *testing.T) {
	r, _ := catalog.LoadResearch("testdata/test_research.json")

	// Level 0 on a known track yields the neutral for its boost type.
	if got := r.Value("lab_damage", 0); got != 1.0 {
		t.Errorf("multiplicative at level 0: got %v, want 1.0", got)
	}
	if got := r.Value("lab_crit_chance", 0); got != 0.0 {
		t.Errorf("additive at level 0: got %v, want 0.0", got)
	}
}

func TestResearchValueClampsToMax(t *testing.T) {
	r, _ := catalog.LoadResearch("testdata/test_research.json")
	if got := r.Value("lab_damage", 99); got != 1.3 {
		t.Errorf("beyond-max level should clamp to the top value: got %v", got)
	}
	if got := r.Value("lab_damage", 2); got != 1.2 {
		t.Errorf("mid level: got %v, want 1.2", got)
	}
}
