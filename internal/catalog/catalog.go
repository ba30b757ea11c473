// Package catalog holds the read-only lookup tables the reducer is built
// with: task templates, achievement templates, map trigger rules and the
// random event deck.
package catalog

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"lifequest/internal/achievement"
	"lifequest/internal/event"
	"lifequest/internal/model"
	"lifequest/internal/treasure"
)

type TaskTemplate struct {
	ID            string             `json:"id" yaml:"id"`
	Title         string             `json:"title" yaml:"title"`
	Category      string             `json:"category" yaml:"category"`
	Subtype       string             `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Kind          string             `json:"kind,omitempty" yaml:"kind,omitempty"`
	Difficulty    int                `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Tier          string             `json:"tier,omitempty" yaml:"tier,omitempty"`
	Minutes       int                `json:"minutes" yaml:"minutes"`
	Repeatable    bool               `json:"isRepeatable" yaml:"repeatable"`
	Priority      int                `json:"priority,omitempty" yaml:"priority,omitempty"`
	Effect        model.StatDelta    `json:"effect,omitempty" yaml:"effect,omitempty"`
	Tags          []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	Prerequisites []string           `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Requirements  model.Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// ResolvedDifficulty prefers a named tier over the numeric field.
func (t TaskTemplate) ResolvedDifficulty() int {
	if d, ok := model.ParseDifficulty(t.Tier); ok {
		return d
	}
	return t.Difficulty
}

type Catalog struct {
	Tasks        []TaskTemplate         `yaml:"tasks"`
	Achievements []achievement.Template `yaml:"achievements"`
	Triggers     []treasure.Rule        `yaml:"triggers"`
	Events       event.Catalog          `yaml:"events"`
}

func (c *Catalog) Task(id string) (TaskTemplate, bool) {
	i := slices.IndexFunc(c.Tasks, func(t TaskTemplate) bool { return t.ID == id })
	if i < 0 {
		return TaskTemplate{}, false
	}
	t := c.Tasks[i]
	t.Tags = slices.Clone(t.Tags)
	t.Prerequisites = slices.Clone(t.Prerequisites)
	return t, true
}

func (c *Catalog) Validate() error {
	seen := map[string]bool{}
	for _, t := range c.Tasks {
		if t.ID == "" || t.Title == "" {
			return fmt.Errorf("task template needs id and title")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task template %q", t.ID)
		}
		seen[t.ID] = true
		if t.Tier != "" {
			if _, ok := model.ParseDifficulty(t.Tier); !ok {
				return fmt.Errorf("task template %q: unknown tier %q", t.ID, t.Tier)
			}
		}
	}
	if err := achievement.Validate(c.Achievements); err != nil {
		return err
	}
	return treasure.ValidateRules(c.Triggers)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Tasks:        defaultTasks(),
		Achievements: achievement.Defaults(),
		Triggers:     treasure.DefaultRules(),
		Events:       event.Defaults(),
	}
}

// LoadFile reads a YAML catalog. Sections the file leaves empty keep their
// built-in defaults.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file Catalog
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c := Default()
	if len(file.Tasks) > 0 {
		c.Tasks = file.Tasks
	}
	if len(file.Achievements) > 0 {
		c.Achievements = file.Achievements
	}
	if len(file.Triggers) > 0 {
		c.Triggers = file.Triggers
	}
	if len(file.Events) > 0 {
		c.Events = file.Events
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func defaultTasks() []TaskTemplate {
	return []TaskTemplate{
		{ID: "read_30", Title: "Read for 30 minutes", Category: "study", Subtype: "reading", Kind: "reading", Tier: "normal", Minutes: 30, Repeatable: true, Tags: []string{"reading"}, Effect: model.StatDelta{Sanity: 5}},
		{ID: "course_lesson", Title: "Finish a course lesson", Category: "study", Subtype: "course", Kind: "study", Tier: "hard", Minutes: 45, Repeatable: true, Tags: []string{"study"}, Requirements: model.Requirements{Sanity: 20}},
		{ID: "morning_run", Title: "Morning run", Category: "fitness", Subtype: "run", Kind: "fitness", Tier: "normal", Minutes: 30, Repeatable: true, Tags: []string{"morning"}, Effect: model.StatDelta{Life: 5, Hunger: -10}},
		{ID: "cook_meal", Title: "Cook a healthy meal", Category: "life", Subtype: "cooking", Kind: "life", Tier: "easy", Minutes: 40, Repeatable: true, Effect: model.StatDelta{Hunger: 40}},
		{ID: "tidy_room", Title: "Tidy the room", Category: "life", Subtype: "chore", Kind: "life", Tier: "easy", Minutes: 20, Repeatable: true, Effect: model.StatDelta{Sanity: 3}},
		{ID: "meditate", Title: "Meditate", Category: "life", Subtype: "mind", Kind: "life", Tier: "trivial", Minutes: 10, Repeatable: true, Tags: []string{"morning"}, Effect: model.StatDelta{Sanity: 8}},
		{ID: "marathon", Title: "Run a half marathon", Category: "fitness", Subtype: "run", Kind: "fitness", Tier: "epic", Minutes: 120, Prerequisites: []string{"iron_day"}, Requirements: model.Requirements{Life: 60, Hunger: 40}},
	}
}
