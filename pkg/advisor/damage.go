package advisor

import "github.com/shopspring/decimal"

// damageState holds the stat values feeding the composite damage formula.
// Chances are percentages in [0, 100]; factor/target stats are neutral at
// 1.0 so their branch collapses when the matching chance is 0.
type damageState struct {
	Damage           float64
	AttackSpeed      float64
	CritChance       float64
	CritFactor       float64
	MultishotChance  float64
	MultishotTargets float64
	RapidFireChance  float64
	BounceChance     float64
	BounceTargets    float64
}

// neutralDamageState returns a state whose multipliers all collapse to 1.0.
func neutralDamageState() damageState {
	return damageState{
		AttackSpeed:      1,
		CritFactor:       1,
		MultishotTargets: 1,
		BounceTargets:    1,
	}
}

var (
	decOne     = decimal.NewFromInt(1)
	decFour    = decimal.NewFromInt(4)
	decHundred = decimal.NewFromInt(100)
)

// chanceMultiplier computes 1 - chance/100 + chance/100 * factor: the
// expected per-shot multiplier of a proc that fires with the given chance.
func chanceMultiplier(chance, factor float64) decimal.Decimal {
	p := decimal.NewFromFloat(chance).Div(decHundred)
	return decOne.Sub(p).Add(p.Mul(decimal.NewFromFloat(factor)))
}

// computeDamage evaluates the composite damage-per-second metric.
//
// The whole path runs in decimal arithmetic: the formula chains several
// multiplications and binary floating point would accumulate drift that
// changes relative ordering between near-equal candidates.
func computeDamage(st damageState) decimal.Decimal {
	critMult := chanceMultiplier(st.CritChance, st.CritFactor)
	multishotMult := chanceMultiplier(st.MultishotChance, st.MultishotTargets)
	bounceMult := chanceMultiplier(st.BounceChance, st.BounceTargets)

	attackSpeed := decimal.NewFromFloat(st.AttackSpeed)
	if st.RapidFireChance > 0 && st.AttackSpeed > 0 {
		// A rapid-fire proc grants +400% attack speed for one second.
		// Average the boost over the expected time between procs.
		avgTimeBetweenProcs := decOne.Div(attackSpeed).
			Mul(decHundred.Div(decimal.NewFromFloat(st.RapidFireChance)))
		avgIncreasePercent := decFour.Div(decOne.Add(avgTimeBetweenProcs))
		attackSpeed = attackSpeed.Mul(decOne.Add(avgIncreasePercent.Div(decHundred)))
	}

	return decimal.NewFromFloat(st.Damage).
		Mul(attackSpeed).
		Mul(critMult).
		Mul(multishotMult).
		Mul(bounceMult)
}
