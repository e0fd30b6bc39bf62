package advisor

import (
	"fmt"

	"github.com/towerscope/towerscope/pkg/catalog"
)

// DefaultStrategies returns the standard strategy set. The research set may
// be empty; the reference strategy then runs without lab boosts.
func DefaultStrategies(research *catalog.ResearchSet) []Strategy {
	if research == nil {
		research = &catalog.ResearchSet{}
	}
	return []Strategy{
		&PerCategoryStrategy{},
		&BalancedStrategy{},
		&ReferenceStrategy{Research: research},
	}
}

// ByName returns the named strategy from the default set.
func ByName(name string, research *catalog.ResearchSet) (Strategy, error) {
	for _, s := range DefaultStrategies(research) {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// StrategyNames lists the available strategy names in default order.
func StrategyNames() []string {
	var names []string
	for _, s := range DefaultStrategies(nil) {
		names = append(names, s.Name())
	}
	return names
}
