package advisor

import (
	"math"
	"testing"
)

// The composite damage cases mirror the reference calculator's published
// examples; the decimal pipeline must reproduce them exactly.

func testState() damageState {
	st := neutralDamageState()
	st.Damage = 10
	st.AttackSpeed = 1
	st.CritFactor = 1.2
	st.MultishotTargets = 2
	st.BounceTargets = 1
	return st
}

func wantDamage(t *testing.T, st damageState, want float64) {
	t.Helper()
	got := computeDamage(st).InexactFloat64()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("computeDamage: got %v, want %v", got, want)
	}
}

func TestComputeDamageZeroDamage(t *testing.T) {
	st := testState()
	st.Damage = 0
	wantDamage(t, st, 0)
}

func TestComputeDamageSimple(t *testing.T) {
	// All chances are 0, so every multiplier collapses to 1.
	wantDamage(t, testState(), 10)
}

func TestComputeDamageCrit(t *testing.T) {
	st := testState()
	st.CritChance = 50
	st.CritFactor = 2
	// crit mult = 1 - 0.5 + 0.5*2 = 1.5
	wantDamage(t, st, 15)
}

func TestComputeDamageMultishot(t *testing.T) {
	st := testState()
	st.AttackSpeed = 2
	st.MultishotChance = 100
	st.MultishotTargets = 3
	// multishot mult = 1 - 1 + 1*3 = 3
	wantDamage(t, st, 60)
}

func TestComputeDamageBounce(t *testing.T) {
	st := testState()
	st.BounceChance = 50
	st.BounceTargets = 4
	// bounce mult = 1 - 0.5 + 0.5*4 = 2.5
	wantDamage(t, st, 25)
}

func TestComputeDamageRapidFire(t *testing.T) {
	st := testState()
	st.AttackSpeed = 2
	st.RapidFireChance = 50
	// avg time between procs = (1/2) * (100/50) = 1
	// avg increase = 4 / (1 + 1) = 2
	// effective attack speed = 2 * (1 + 2/100) = 2.04
	wantDamage(t, st, 20.4)
}

func TestChanceMultiplierNeutral(t *testing.T) {
	if got := chanceMultiplier(0, 5).InexactFloat64(); got != 1 {
		t.Errorf("zero chance: got %v, want 1", got)
	}
	if got := chanceMultiplier(100, 3).InexactFloat64(); got != 3 {
		t.Errorf("guaranteed proc: got %v, want factor 3", got)
	}
}
