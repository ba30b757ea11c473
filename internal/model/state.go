package model

import (
	"maps"
	"slices"
	"time"
)

// SchemaVersion is the current persisted document version.
const SchemaVersion = 3

// TicketGame is the ticket balance spent on game sessions.
const TicketGame = "game"

// EventModifier scales completion rewards while a random event is active.
// An empty Categories list applies to every category.
type EventModifier struct {
	ExpMult    float64  `json:"expMult,omitempty" yaml:"exp_mult,omitempty"`
	CoinMult   float64  `json:"coinMult,omitempty" yaml:"coin_mult,omitempty"`
	ExpBonus   int      `json:"expBonus,omitempty" yaml:"exp_bonus,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

func (m EventModifier) Applies(category string) bool {
	return len(m.Categories) == 0 || slices.Contains(m.Categories, category)
}

type RandomEvent struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Day         int           `json:"day"`
	StatDelta   StatDelta     `json:"statDelta"`
	Modifier    EventModifier `json:"modifier"`
}

type World struct {
	Day            int          `json:"day"`
	RandomEvent    *RandomEvent `json:"randomEvent"`
	LastRefreshDay string       `json:"lastRefreshDay"`
}

type Currency struct {
	Coins int `json:"coins"`
}

// Burst tracks consecutive completions of the same task kind.
type Burst struct {
	LastKind   string `json:"lastKind"`
	ComboCount int    `json:"comboCount"`
}

// WorldState is the single root document. It is never mutated in place by
// the reducer: every operation works on a Clone and swaps it in on success.
type WorldState struct {
	SchemaVersion  int                `json:"schemaVersion"`
	Stats          Stats              `json:"stats"`
	World          World              `json:"world"`
	Currency       Currency           `json:"currency"`
	Exp            int                `json:"exp"`
	Tickets        map[string]int     `json:"tickets"`
	Gems           map[string]int     `json:"gems"`
	Tasks          []Task             `json:"tasks"`
	CompletedTasks []CompletionRecord `json:"completedTasks"`
	TreasureMaps   []TreasureMap      `json:"treasureMaps"`
	Claims         []Claim            `json:"claims"`
	Achievements   []AchievementState `json:"achievements"`
	Burst          Burst              `json:"burst"`
	TriggerKeys    []string           `json:"triggerKeys"`

	// History is persisted by its own store and never part of the document.
	History []HistoryEntry `json:"-"`
}

// NewWorldState builds the default document.
func NewWorldState(lim StatLimits) *WorldState {
	return &WorldState{
		SchemaVersion:  SchemaVersion,
		Stats:          Stats{Life: lim.Life, Sanity: lim.Sanity, Hunger: lim.Hunger},
		Tickets:        map[string]int{TicketGame: 0},
		Gems:           map[string]int{},
		Tasks:          []Task{},
		CompletedTasks: []CompletionRecord{},
		TreasureMaps:   []TreasureMap{},
		Claims:         []Claim{},
		Achievements:   []AchievementState{},
		TriggerKeys:    []string{},
		History:        []HistoryEntry{},
	}
}

// Normalize replaces nil collections so that encoded documents never carry
// nulls for lists or maps.
func (s *WorldState) Normalize() {
	if s.Tickets == nil {
		s.Tickets = map[string]int{}
	}
	if _, ok := s.Tickets[TicketGame]; !ok {
		s.Tickets[TicketGame] = 0
	}
	if s.Gems == nil {
		s.Gems = map[string]int{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	for i := range s.Tasks {
		if s.Tasks[i].Tags == nil {
			s.Tasks[i].Tags = []string{}
		}
		if s.Tasks[i].Prerequisites == nil {
			s.Tasks[i].Prerequisites = []string{}
		}
	}
	if s.CompletedTasks == nil {
		s.CompletedTasks = []CompletionRecord{}
	}
	if s.TreasureMaps == nil {
		s.TreasureMaps = []TreasureMap{}
	}
	if s.Claims == nil {
		s.Claims = []Claim{}
	}
	if s.Achievements == nil {
		s.Achievements = []AchievementState{}
	}
	if s.TriggerKeys == nil {
		s.TriggerKeys = []string{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s *WorldState) Clone() *WorldState {
	if s == nil {
		return nil
	}
	out := *s
	if s.World.RandomEvent != nil {
		ev := *s.World.RandomEvent
		ev.Modifier.Categories = slices.Clone(ev.Modifier.Categories)
		out.World.RandomEvent = &ev
	}
	out.Tickets = maps.Clone(s.Tickets)
	out.Gems = maps.Clone(s.Gems)
	out.Tasks = cloneEach(s.Tasks, Task.Clone)
	out.CompletedTasks = cloneEach(s.CompletedTasks, CompletionRecord.Clone)
	out.TreasureMaps = cloneEach(s.TreasureMaps, TreasureMap.Clone)
	out.Claims = cloneEach(s.Claims, Claim.Clone)
	out.Achievements = cloneEach(s.Achievements, AchievementState.Clone)
	out.TriggerKeys = slices.Clone(s.TriggerKeys)
	out.History = cloneEach(s.History, HistoryEntry.Clone)
	return &out
}

func cloneEach[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func (s *WorldState) TaskIndex(id string) int {
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}

func (s *WorldState) MapIndex(id string) int {
	return slices.IndexFunc(s.TreasureMaps, func(m TreasureMap) bool { return m.ID == id })
}

func (s *WorldState) ClaimIndex(id string) int {
	return slices.IndexFunc(s.Claims, func(c Claim) bool { return c.ID == id })
}

func (s *WorldState) AchievementIndex(key string) int {
	return slices.IndexFunc(s.Achievements, func(a AchievementState) bool { return a.Key == key })
}

// IsUnlocked reports whether the achievement with key has been unlocked.
func (s *WorldState) IsUnlocked(key string) bool {
	i := s.AchievementIndex(key)
	return i >= 0 && s.Achievements[i].Unlocked
}

func (s *WorldState) HasTriggerKey(key string) bool {
	return slices.Contains(s.TriggerKeys, key)
}

// ApplyReward credits r to the document. claimID is used only when r grants
// a voucher.
func (s *WorldState) ApplyReward(r Reward, lim StatLimits, source, claimID string, now time.Time) {
	s.Currency.Coins = max(0, s.Currency.Coins+r.Coins)
	s.Exp = max(0, s.Exp+r.Exp)
	s.Stats = s.Stats.Apply(r.Stats, lim)
	if r.Claim != nil {
		s.Claims = append(s.Claims, Claim{
			ID:        claimID,
			Type:      r.Claim.Type,
			Name:      r.Claim.Name,
			Source:    source,
			CreatedAt: now,
		})
	}
}
