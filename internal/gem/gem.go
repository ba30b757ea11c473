// Package gem holds the gem tiers, the drop table rolled on task completion
// and the fusion rules that turn three gems into a reward.
package gem

import (
	"math/rand"

	"lifequest/internal/model"
)

type Type string

const (
	Quartz   Type = "quartz"
	Amethyst Type = "amethyst"
	Sapphire Type = "sapphire"
	Diamond  Type = "diamond"
)

// FuseCost is the number of identical gems consumed by one fusion.
const FuseCost = 3

// TableEntry is a weighted drop.
type TableEntry struct {
	Gem    Type `json:"gem" yaml:"gem"`
	Weight int  `json:"weight" yaml:"weight"`
}

type Table []TableEntry

var DefaultTable = Table{
	{Gem: Quartz, Weight: 55},
	{Gem: Amethyst, Weight: 28},
	{Gem: Sapphire, Weight: 13},
	{Gem: Diamond, Weight: 4},
}

// Roll picks one gem by weight.
func (t Table) Roll(rng *rand.Rand) (Type, bool) {
	total := 0
	for _, e := range t {
		total += max(e.Weight, 0)
	}
	if total == 0 {
		return "", false
	}
	roll := rng.Intn(total)
	current := 0
	for _, e := range t {
		current += max(e.Weight, 0)
		if roll < current {
			return e.Gem, true
		}
	}
	return "", false
}

// Drop rolls the table with the given probability of any drop at all.
func (t Table) Drop(rng *rand.Rand, chance float64) (Type, bool) {
	if chance <= 0 || rng.Float64() >= chance {
		return "", false
	}
	return t.Roll(rng)
}

// Fusion is what three gems of one type turn into.
type Fusion struct {
	Exp   int              `json:"exp"`
	Claim model.ClaimGrant `json:"claim"`
	// SpawnsMap adds a treasure map of MapTier on top of the voucher.
	SpawnsMap bool          `json:"spawnsMap,omitempty"`
	MapTier   model.MapTier `json:"mapTier,omitempty"`
}

var DefaultFusions = map[Type]Fusion{
	Quartz:   {Exp: 30, Claim: model.ClaimGrant{Type: "break", Name: "15 minute break"}},
	Amethyst: {Exp: 60, Claim: model.ClaimGrant{Type: "treat", Name: "Coffee treat"}},
	Sapphire: {Exp: 120, Claim: model.ClaimGrant{Type: "leisure", Name: "Movie night"}},
	Diamond: {
		Exp:       300,
		Claim:     model.ClaimGrant{Type: "jackpot", Name: "Day off"},
		SpawnsMap: true,
		MapTier:   model.TierS,
	},
}

// Known reports whether g is a gem the fusion table knows about.
func Known(g Type, fusions map[Type]Fusion) bool {
	_, ok := fusions[g]
	return ok
}

// Fuse consumes FuseCost gems of type g from inventory and returns the
// fusion to grant. inventory is left untouched on failure.
func Fuse(inventory map[string]int, g Type, fusions map[Type]Fusion) (Fusion, error) {
	f, ok := fusions[g]
	if !ok {
		return Fusion{}, model.Fail(model.CodeInvalidInput, "unknown gem %q", g)
	}
	if have := inventory[string(g)]; have < FuseCost {
		return Fusion{}, model.Fail(model.CodeInsufficientBalance,
			"need %d %s to fuse, you have %d", FuseCost, g, have)
	}
	inventory[string(g)] -= FuseCost
	return f, nil
}
