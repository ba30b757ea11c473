// Package event draws the optional random event that colours a game day.
package event

import (
	"math/rand"

	"lifequest/internal/model"
)

// Definition is a catalog entry. Weight is relative to the other entries.
type Definition struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Weight      int                 `json:"weight" yaml:"weight"`
	StatDelta   model.StatDelta     `json:"statDelta" yaml:"stat_delta"`
	Modifier    model.EventModifier `json:"modifier" yaml:"modifier"`
}

type Catalog []Definition

func Defaults() Catalog {
	return Catalog{
		{
			ID: "double_study", Name: "Study Rush", Weight: 20,
			Description: "Study tasks earn double experience today.",
			Modifier:    model.EventModifier{ExpMult: 2, Categories: []string{"study"}},
		},
		{
			ID: "market_day", Name: "Market Day", Weight: 20,
			Description: "Every completion pays 50% more coins.",
			Modifier:    model.EventModifier{CoinMult: 1.5},
		},
		{
			ID: "sunny_morning", Name: "Sunny Morning", Weight: 25,
			Description: "You feel refreshed. Fitness tasks give +10 exp.",
			StatDelta:   model.StatDelta{Sanity: 10},
			Modifier:    model.EventModifier{ExpBonus: 10, Categories: []string{"fitness"}},
		},
		{
			ID: "rainy_day", Name: "Rainy Day", Weight: 20,
			Description: "Gloomy weather. Life tasks give +5 exp.",
			StatDelta:   model.StatDelta{Sanity: -10},
			Modifier:    model.EventModifier{ExpBonus: 5, Categories: []string{"life"}},
		},
		{
			ID: "feast", Name: "Feast", Weight: 15,
			Description: "A big meal. Hunger restored.",
			StatDelta:   model.StatDelta{Hunger: 30, Life: 5},
		},
	}
}

// Draw rolls for an event on day. With probability 1-chance no event
// happens.
func (c Catalog) Draw(rng *rand.Rand, day int, chance float64) (*model.RandomEvent, bool) {
	if len(c) == 0 || chance <= 0 || rng.Float64() >= chance {
		return nil, false
	}
	total := 0
	for _, d := range c {
		total += max(d.Weight, 0)
	}
	if total == 0 {
		return nil, false
	}
	roll := rng.Intn(total)
	current := 0
	for _, d := range c {
		current += max(d.Weight, 0)
		if roll < current {
			return d.instantiate(day), true
		}
	}
	return nil, false
}

func (d Definition) instantiate(day int) *model.RandomEvent {
	mod := d.Modifier
	mod.Categories = append([]string(nil), d.Modifier.Categories...)
	return &model.RandomEvent{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Day:         day,
		StatDelta:   d.StatDelta,
		Modifier:    mod,
	}
}

// Expired reports whether ev belongs to a day other than day.
func Expired(ev *model.RandomEvent, day int) bool {
	return ev != nil && ev.Day != day
}
