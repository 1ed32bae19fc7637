package signup

import "strings"

// Regime says how capacity is tracked for a role category.
type Regime int

const (
	// PerOpportunity: every opportunity has its own spot pool and a
	// volunteer may take any subset.
	PerOpportunity Regime = iota
	// ProgramLevel: one signup commits the volunteer to every opportunity
	// of the family within a program, and capacity is represented by the
	// family's first opportunity.
	ProgramLevel
)

func (r Regime) String() string {
	if r == ProgramLevel {
		return "program-level"
	}
	return "per-opportunity"
}

// Family is one recognized category family. Aliases are the label variants
// the CRM produces for the same role ("Program Tech" vs "Program Support").
type Family struct {
	Name    string
	Regime  Regime
	Aliases []string
}

// PolicyTable classifies raw category strings into capacity regimes. The
// table is data so the classification can be tested exhaustively instead of
// living in scattered string predicates.
type PolicyTable struct {
	families []Family
}

// DefaultPolicyTable returns the category families the product recognizes.
func DefaultPolicyTable() *PolicyTable {
	return &PolicyTable{families: []Family{
		{
			Name:    "financial coaching",
			Regime:  ProgramLevel,
			Aliases: []string{"financial coaching", "financial coach", "coaching"},
		},
		{
			Name:    "program support",
			Regime:  ProgramLevel,
			Aliases: []string{"program support", "program tech", "program technology"},
		},
		{
			Name:    "workshop presenting",
			Regime:  PerOpportunity,
			Aliases: []string{"workshop presenting", "workshop presenter", "presenter"},
		},
		{
			Name:    "event support",
			Regime:  PerOpportunity,
			Aliases: []string{"event support", "event volunteer"},
		},
	}}
}

// Classify returns the family a category belongs to. Unknown categories get
// a synthetic per-opportunity family named after their normalized label, so
// they still group with exact-label matches.
func (t *PolicyTable) Classify(category string) Family {
	norm := normalizeCategory(category)
	for _, f := range t.families {
		for _, alias := range f.Aliases {
			if norm == alias || strings.Contains(norm, alias) {
				return f
			}
		}
	}
	return Family{Name: norm, Regime: PerOpportunity}
}

// Regime is a shorthand for Classify(category).Regime.
func (t *PolicyTable) Regime(category string) Regime {
	return t.Classify(category).Regime
}

// SameFamily reports whether two category labels belong to the same family.
func (t *PolicyTable) SameFamily(a, b string) bool {
	return t.Classify(a).Name == t.Classify(b).Name
}

func normalizeCategory(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
