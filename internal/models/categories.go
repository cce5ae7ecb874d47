package models

import "fmt"

// Category is a closed enumeration of scoring categories. Any string outside
// this set is rejected when league settings are validated, rather than
// silently scoring zero at computation time.
type Category string

// Hitting categories
const (
	CategoryRuns    Category = "R"
	CategoryHomerun Category = "HR"
	CategoryRBI     Category = "RBI"
	CategorySteals  Category = "SB"
	CategoryHits    Category = "H"
	CategoryWalks   Category = "BB"
	CategoryCaught  Category = "CS"
	CategoryAvg     Category = "AVG"
	CategoryOBP     Category = "OBP"
	CategorySlg     Category = "SLG"
	CategoryOPS     Category = "OPS"
)

// Pitching categories
const (
	CategoryWins       Category = "W"
	CategoryLosses     Category = "L"
	CategorySaves      Category = "SV"
	CategoryHolds      Category = "HLD"
	CategoryStrikeouts Category = "K"
	CategoryInnings    Category = "IP"
	CategoryERA        Category = "ERA"
	CategoryWHIP       Category = "WHIP"
	CategoryKPerBB     Category = "K/BB"
	CategoryBBPer9     Category = "BB/9"
	CategoryKPerBFPct  Category = "K/BF%"
)

type categoryKind int

const (
	countingCategory categoryKind = iota
	ratioCategory
)

type categoryInfo struct {
	kind        categoryKind
	pitching    bool
	lowerBetter bool
	// reconstructable is false for ratio categories whose team-level value
	// cannot be rebuilt from the per-player projections we receive.
	reconstructable bool
}

var categoryTable = map[Category]categoryInfo{
	CategoryRuns:    {kind: countingCategory, reconstructable: true},
	CategoryHomerun: {kind: countingCategory, reconstructable: true},
	CategoryRBI:     {kind: countingCategory, reconstructable: true},
	CategorySteals:  {kind: countingCategory, reconstructable: true},
	CategoryHits:    {kind: countingCategory, reconstructable: true},
	CategoryWalks:   {kind: countingCategory, reconstructable: true},
	CategoryCaught:  {kind: countingCategory, lowerBetter: true, reconstructable: true},
	CategoryAvg:     {kind: ratioCategory, reconstructable: true},
	CategoryOBP:     {kind: ratioCategory, reconstructable: true},
	CategorySlg:     {kind: ratioCategory, reconstructable: true},
	CategoryOPS:     {kind: ratioCategory, reconstructable: true},

	CategoryWins:       {kind: countingCategory, pitching: true, reconstructable: true},
	CategoryLosses:     {kind: countingCategory, pitching: true, lowerBetter: true, reconstructable: true},
	CategorySaves:      {kind: countingCategory, pitching: true, reconstructable: true},
	CategoryHolds:      {kind: countingCategory, pitching: true, reconstructable: true},
	CategoryStrikeouts: {kind: countingCategory, pitching: true, reconstructable: true},
	CategoryInnings:    {kind: countingCategory, pitching: true, reconstructable: true},
	CategoryERA:        {kind: ratioCategory, pitching: true, lowerBetter: true, reconstructable: true},
	CategoryWHIP:       {kind: ratioCategory, pitching: true, lowerBetter: true, reconstructable: true},
	CategoryKPerBB:     {kind: ratioCategory, pitching: true},
	CategoryBBPer9:     {kind: ratioCategory, pitching: true, lowerBetter: true},
	CategoryKPerBFPct:  {kind: ratioCategory, pitching: true},
}

// Valid reports whether c is a known scoring category.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// IsRatio reports whether c is a rate statistic. Ratio categories are never
// summed across players; their underlying components are accumulated and the
// ratio is taken once per team.
func (c Category) IsRatio() bool {
	return categoryTable[c].kind == ratioCategory
}

// IsPitching reports whether c belongs to the pitching side of the ledger.
func (c Category) IsPitching() bool {
	return categoryTable[c].pitching
}

// LowerBetter reports whether a smaller value ranks higher (ERA, WHIP,
// losses, caught stealing).
func (c Category) LowerBetter() bool {
	return categoryTable[c].lowerBetter
}

// Reconstructable reports whether a team-level value for c can be rebuilt
// from per-player projections. K/BB, BB/9 and K/BF% cannot: the component
// stats they need are not in the projection feed.
func (c Category) Reconstructable() bool {
	return categoryTable[c].reconstructable
}

// ValidateCategories checks a league's enabled category list at configuration
// time. It rejects unknown codes outright and rejects ratio categories whose
// reconstruction is unsupported, so the projector never has to guess.
func ValidateCategories(categories []Category) error {
	seen := make(map[Category]bool, len(categories))
	for _, c := range categories {
		if !c.Valid() {
			return fmt.Errorf("unknown scoring category %q", string(c))
		}
		if !c.Reconstructable() {
			return fmt.Errorf("category %q cannot be projected from per-player stats", string(c))
		}
		if seen[c] {
			return fmt.Errorf("category %q enabled twice", string(c))
		}
		seen[c] = true
	}
	return nil
}
