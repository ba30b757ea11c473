// Package achievement recomputes achievement progress from the completion
// log and hands out one-time unlock rewards.
package achievement

import (
	"fmt"
	"time"

	"lifequest/internal/model"
)

type ConditionType string

const (
	TagCount ConditionType = "tag_count"
	// CourseStreak counts trailing days with a completion in Category. Today
	// gets a grace period: until something is completed today the run is
	// counted from yesterday.
	CourseStreak ConditionType = "course_streak"
	CourseDaily  ConditionType = "course_daily"
	NoTagDays    ConditionType = "no_tag_days"
)

// ConditionTypes lists every supported condition. Each must have a measure.
var ConditionTypes = []ConditionType{TagCount, CourseStreak, CourseDaily, NoTagDays}

type Condition struct {
	Type     ConditionType `json:"type" yaml:"type"`
	Tag      string        `json:"tag,omitempty" yaml:"tag,omitempty"`
	Category string        `json:"category,omitempty" yaml:"category,omitempty"`
	Target   int           `json:"target" yaml:"target"`
}

type Template struct {
	Key         string       `json:"key" yaml:"key"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Condition   Condition    `json:"condition" yaml:"condition"`
	Reward      model.Reward `json:"reward" yaml:"reward"`
}

// measure returns raw, uncapped progress for a condition.
type measure func(c Condition, s *model.WorldState) int

var measures = map[ConditionType]measure{
	TagCount:     tagCount,
	CourseStreak: courseStreak,
	CourseDaily:  courseDaily,
	NoTagDays:    noTagDays,
}

// Validate checks that every template uses a known condition and has a
// positive target.
func Validate(templates []Template) error {
	seen := map[string]bool{}
	for _, t := range templates {
		if t.Key == "" {
			return fmt.Errorf("achievement template without key")
		}
		if seen[t.Key] {
			return fmt.Errorf("duplicate achievement key %q", t.Key)
		}
		seen[t.Key] = true
		if _, ok := measures[t.Condition.Type]; !ok {
			return fmt.Errorf("achievement %q: unknown condition type %q", t.Key, t.Condition.Type)
		}
		if t.Condition.Target <= 0 {
			return fmt.Errorf("achievement %q: target must be positive", t.Key)
		}
	}
	return nil
}

// Unlock describes an achievement unlocked by a Recalculate call.
type Unlock struct {
	Key    string       `json:"key"`
	Name   string       `json:"name"`
	Reward model.Reward `json:"reward"`
}

type Evaluator struct {
	Templates []Template
	Limits    model.StatLimits
}

func NewEvaluator(templates []Template, lim model.StatLimits) *Evaluator {
	return &Evaluator{Templates: templates, Limits: lim}
}

// Recalculate refreshes s.Achievements in place. Unlocked entries are frozen:
// only their target follows the template. Newly reached targets unlock and
// credit the template reward exactly once.
func (e *Evaluator) Recalculate(s *model.WorldState, now time.Time, newID func() string) []Unlock {
	var unlocked []Unlock
	for _, t := range e.Templates {
		i := s.AchievementIndex(t.Key)
		if i < 0 {
			s.Achievements = append(s.Achievements, model.AchievementState{
				Key:         t.Key,
				Name:        t.Name,
				Description: t.Description,
			})
			i = len(s.Achievements) - 1
		}
		a := &s.Achievements[i]
		a.Target = t.Condition.Target
		if a.Unlocked {
			continue
		}
		a.Name = t.Name
		a.Description = t.Description

		m, ok := measures[t.Condition.Type]
		if !ok {
			continue
		}
		a.Progress = min(max(m(t.Condition, s), 0), a.Target)
		if a.Progress < a.Target {
			continue
		}

		a.Unlocked = true
		a.UnlockedAt = model.TimePtr(now)
		var claimID string
		if t.Reward.Claim != nil && newID != nil {
			claimID = newID()
		}
		s.ApplyReward(t.Reward, e.Limits, "achievement:"+t.Key, claimID, now)
		unlocked = append(unlocked, Unlock{Key: t.Key, Name: t.Name, Reward: t.Reward.Clone()})
	}
	return unlocked
}

func tagCount(c Condition, s *model.WorldState) int {
	n := 0
	for _, r := range s.CompletedTasks {
		if r.HasTag(c.Tag) {
			n++
		}
	}
	return n
}

// courseStreak counts consecutive days with at least one completion in the
// category, walking back from world.day. Grace rule: when world.day has no
// completion in the category yet, the walk starts at world.day-1, so a run
// that ended yesterday still counts until today is over.
func courseStreak(c Condition, s *model.WorldState) int {
	days := map[int]bool{}
	for _, r := range s.CompletedTasks {
		if r.Category == c.Category {
			days[r.Day] = true
		}
	}
	day := s.World.Day
	if !days[day] {
		day--
	}
	n := 0
	for days[day] {
		n++
		day--
	}
	return n
}

func courseDaily(c Condition, s *model.WorldState) int {
	n := 0
	for _, r := range s.CompletedTasks {
		if r.Category == c.Category && r.Day == s.World.Day {
			n++
		}
	}
	return n
}

// noTagDays is the number of days since the tag was last seen, 0 when it
// never was.
func noTagDays(c Condition, s *model.WorldState) int {
	last, found := 0, false
	for _, r := range s.CompletedTasks {
		if r.HasTag(c.Tag) && (!found || r.Day > last) {
			last, found = r.Day, true
		}
	}
	if !found {
		return 0
	}
	return s.World.Day - last
}
