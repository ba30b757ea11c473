package model

import (
	"slices"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusTodo TaskStatus = "todo"
	StatusDone TaskStatus = "done"
)

// Difficulty bounds. Named tiers map onto the same scale.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

var difficultyTiers = map[string]int{
	"trivial": 1,
	"easy":    2,
	"normal":  3,
	"hard":    4,
	"epic":    5,
}

// ParseDifficulty accepts a named tier ("easy", "hard", ...) and reports
// whether it was recognised.
func ParseDifficulty(name string) (int, bool) {
	d, ok := difficultyTiers[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Streak is the per-task consecutive-day completion counter.
// A zero Count means the streak is broken or was never started.
type Streak struct {
	Count   int `json:"count"`
	LastDay int `json:"lastDay"`
}

type Task struct {
	ID              string       `json:"id"`
	TemplateID      string       `json:"templateId,omitempty"`
	Title           string       `json:"title"`
	Category        string       `json:"category"`
	Subtype         string       `json:"subtype,omitempty"`
	Status          TaskStatus   `json:"status"`
	Repeatable      bool         `json:"isRepeatable"`
	CreatedAt       time.Time    `json:"createdAt"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
	LastCompletedAt *time.Time   `json:"lastCompletedAt,omitempty"`
	Exp             int          `json:"exp"`
	CoinsReward     int          `json:"coinsReward"`
	Effect          StatDelta    `json:"effect"`
	Priority        int          `json:"priority"`
	Streak          Streak       `json:"streak"`
	StreakActive    bool         `json:"streakActive"`
	Minutes         int          `json:"minutes"`
	Difficulty      int          `json:"difficulty"`
	Kind            string       `json:"kind"`
	Prerequisites   []string     `json:"prerequisites"`
	Requirements    Requirements `json:"requirements"`
	Tags            []string     `json:"tags"`
}

func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t Task) Clone() Task {
	out := t
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.LastCompletedAt = cloneTime(t.LastCompletedAt)
	out.Prerequisites = slices.Clone(t.Prerequisites)
	out.Tags = slices.Clone(t.Tags)
	return out
}

// CompletionRecord is the immutable log line written for each successful
// completion. Achievements and treasure maps are evaluated against these.
type CompletionRecord struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Subtype     string    `json:"subtype,omitempty"`
	Kind        string    `json:"kind"`
	CompletedAt time.Time `json:"completedAt"`
	Day         int       `json:"day"`
	Exp         int       `json:"exp"`
	Coins       int       `json:"coins"`
	Tags        []string  `json:"tags"`
}

func (r CompletionRecord) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

func (r CompletionRecord) Clone() CompletionRecord {
	out := r
	out.Tags = slices.Clone(r.Tags)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr returns a pointer to a copy of t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
