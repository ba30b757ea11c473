package world

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"lifequest/internal/achievement"
	"lifequest/internal/event"
	"lifequest/internal/model"
	"lifequest/internal/reward"
	"lifequest/internal/streak"
)

// TaskInput describes a task to register. When TemplateID is set the
// template supplies every field the input leaves at its zero value.
type TaskInput struct {
	TemplateID    string              `json:"templateId,omitempty"`
	Title         string              `json:"title,omitempty"`
	Category      string              `json:"category,omitempty"`
	Subtype       string              `json:"subtype,omitempty"`
	Kind          string              `json:"kind,omitempty"`
	Difficulty    int                 `json:"difficulty,omitempty"`
	Tier          string              `json:"tier,omitempty"`
	Minutes       int                 `json:"minutes,omitempty"`
	Repeatable    *bool               `json:"isRepeatable,omitempty"`
	Priority      int                 `json:"priority,omitempty"`
	Effect        *model.StatDelta    `json:"effect,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Prerequisites []string            `json:"prerequisites,omitempty"`
	Requirements  *model.Requirements `json:"requirements,omitempty"`
}

func (e *Engine) buildTask(in TaskInput) (model.Task, error) {
	var t model.Task
	if in.TemplateID != "" {
		tpl, ok := e.catalog.Task(in.TemplateID)
		if !ok {
			return model.Task{}, model.Fail(model.CodeNotFound, "no task template %q", in.TemplateID)
		}
		t = model.Task{
			TemplateID:    tpl.ID,
			Title:         tpl.Title,
			Category:      tpl.Category,
			Subtype:       tpl.Subtype,
			Kind:          tpl.Kind,
			Difficulty:    tpl.ResolvedDifficulty(),
			Minutes:       tpl.Minutes,
			Repeatable:    tpl.Repeatable,
			Priority:      tpl.Priority,
			Effect:        tpl.Effect,
			Tags:          tpl.Tags,
			Prerequisites: tpl.Prerequisites,
			Requirements:  tpl.Requirements,
		}
	}

	if s := strings.TrimSpace(in.Title); s != "" {
		t.Title = s
	}
	if in.Category != "" {
		t.Category = in.Category
	}
	if in.Subtype != "" {
		t.Subtype = in.Subtype
	}
	if in.Kind != "" {
		t.Kind = in.Kind
	}
	if in.Tier != "" {
		d, ok := model.ParseDifficulty(in.Tier)
		if !ok {
			return model.Task{}, model.Fail(model.CodeInvalidInput, "unknown difficulty %q", in.Tier)
		}
		t.Difficulty = d
	}
	if in.Difficulty != 0 {
		t.Difficulty = in.Difficulty
	}
	if in.Minutes != 0 {
		t.Minutes = in.Minutes
	}
	if in.Repeatable != nil {
		t.Repeatable = *in.Repeatable
	}
	if in.Priority != 0 {
		t.Priority = in.Priority
	}
	if in.Effect != nil {
		t.Effect = *in.Effect
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.Prerequisites != nil {
		t.Prerequisites = in.Prerequisites
	}
	if in.Requirements != nil {
		t.Requirements = *in.Requirements
	}

	if t.Title == "" {
		return model.Task{}, model.Fail(model.CodeInvalidInput, "a task needs a title")
	}
	if t.Category == "" {
		t.Category = "general"
	}
	if t.Kind == "" {
		t.Kind = t.Category
	}
	t.Difficulty = min(max(t.Difficulty, model.MinDifficulty), model.MaxDifficulty)
	t.Minutes = max(t.Minutes, 1)
	t.Tags = slices.Clone(t.Tags)
	t.Prerequisites = slices.Clone(t.Prerequisites)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Prerequisites == nil {
		t.Prerequisites = []string{}
	}
	return t, nil
}

// RegisterTask adds a new todo task at the head of the task list.
func (e *Engine) RegisterTask(ctx context.Context, in TaskInput) (model.Task, error) {
	var out model.Task
	_, err := e.update(ctx, "register_task", func(tx *txn) error {
		t, err := e.buildTask(in)
		if err != nil {
			return err
		}
		preview := e.settings.Reward.Calculate(reward.Input{
			Difficulty: t.Difficulty,
			Minutes:    t.Minutes,
			Kind:       t.Kind,
			ComboCount: 1,
		})
		t.ID = e.newID()
		t.Status = model.StatusTodo
		t.CreatedAt = tx.now
		t.CoinsReward = preview.Coins
		t.Exp = preview.Exp

		tx.s.Tasks = slices.Insert(tx.s.Tasks, 0, t)
		e.push(tx, model.HistoryEntry{
			Type:    model.HistoryTaskAdd,
			Summary: "Added task " + t.Title,
			Payload: map[string]any{"taskId": t.ID, "title": t.Title},
		})
		out = t.Clone()
		return nil
	})
	return out, err
}

// Completion is the result of a successful CompleteTask.
type Completion struct {
	TaskID       string               `json:"taskId"`
	RecordID     string               `json:"recordId"`
	HistoryID    string               `json:"historyId"`
	RewardCoins  int                  `json:"rewardCoins"`
	RewardExp    int                  `json:"rewardExp"`
	ComboBonus   float64              `json:"comboBonus"`
	ComboCount   int                  `json:"comboCount"`
	Streak       model.Streak         `json:"streak"`
	StreakActive bool                 `json:"streakActive"`
	GemDrop      string               `json:"gemDrop,omitempty"`
	MapsAdvanced []string             `json:"mapsAdvanced,omitempty"`
	Unlocked     []achievement.Unlock `json:"unlocked,omitempty"`
	MapsCreated  []model.TreasureMap  `json:"mapsCreated,omitempty"`
}

// CompleteTask validates and applies one completion, then cascades into
// map progress, achievements and map triggers.
func (e *Engine) CompleteTask(ctx context.Context, taskID string) (Completion, error) {
	var (
		out      Completion
		category string
	)
	c, err := e.update(ctx, "complete_task", func(tx *txn) error {
		s := tx.s
		i := s.TaskIndex(taskID)
		if i < 0 {
			return model.Fail(model.CodeNotFound, "task not found")
		}
		t := &s.Tasks[i]
		if !t.Repeatable && t.Status == model.StatusDone {
			return model.Fail(model.CodeAlreadyCompleted, "%q is already done", t.Title)
		}
		if missing := t.Requirements.Missing(s.Stats, s.Currency.Coins); len(missing) > 0 {
			return model.Fail(model.CodeRequirementsNotMet, "not enough %s to attempt %q", strings.Join(missing, ", "), t.Title)
		}
		if locked := lockedPrerequisites(s, t.Prerequisites); len(locked) > 0 {
			return model.Fail(model.CodePrerequisitesNotMet, "unlock %s first", strings.Join(locked, ", "))
		}

		undo := model.TaskCompletionUndo{
			TaskID:                  t.ID,
			PreviousStatus:          t.Status,
			PreviousCompletedAt:     t.CompletedAt,
			PreviousLastCompletedAt: t.LastCompletedAt,
			PreviousStreak:          t.Streak,
			PreviousStreakActive:    t.StreakActive,
			PreviousStats:           s.Stats,
		}

		if s.Burst.ComboCount > 0 && s.Burst.LastKind == t.Kind {
			s.Burst.ComboCount++
		} else {
			s.Burst.ComboCount = 1
		}
		s.Burst.LastKind = t.Kind

		day := s.World.Day
		st := streak.Update(t.Streak, day, e.settings.StreakThreshold)

		r := e.settings.Reward.Calculate(reward.Input{
			Difficulty: t.Difficulty,
			Minutes:    t.Minutes,
			Kind:       t.Kind,
			ComboCount: s.Burst.ComboCount,
		})
		r = reward.ApplyStreak(r, st.Active, e.settings.StreakMultiplier)
		if ev := s.World.RandomEvent; ev != nil && !event.Expired(ev, day) {
			r = reward.ApplyEvent(r, ev, t.Category)
		}

		s.Stats = s.Stats.Apply(t.Effect, e.settings.Limits)
		rec := model.CompletionRecord{
			ID:          e.newID(),
			TaskID:      t.ID,
			Title:       t.Title,
			Category:    t.Category,
			Subtype:     t.Subtype,
			Kind:        t.Kind,
			CompletedAt: tx.now,
			Day:         day,
			Exp:         r.Exp,
			Coins:       r.Coins,
			Tags:        slices.Clone(t.Tags),
		}
		s.CompletedTasks = append(s.CompletedTasks, rec)
		s.Currency.Coins += r.Coins
		s.Exp += r.Exp

		if !t.Repeatable {
			t.Status = model.StatusDone
			t.CompletedAt = model.TimePtr(tx.now)
		}
		t.LastCompletedAt = model.TimePtr(tx.now)
		t.Streak = st.Streak
		t.StreakActive = st.Active

		var drop string
		if g, ok := e.settings.GemTable.Drop(e.rng, e.settings.GemDropChance); ok {
			drop = string(g)
			s.Gems[drop]++
		}

		undo.RecordID = rec.ID
		undo.CoinsDelta = r.Coins
		undo.ExpDelta = r.Exp
		undo.GemDrop = drop
		summary := fmt.Sprintf("Completed %s (+%d coins, +%d exp)", t.Title, r.Coins, r.Exp)
		payload := map[string]any{
			"taskId":     t.ID,
			"recordId":   rec.ID,
			"coins":      r.Coins,
			"exp":        r.Exp,
			"comboBonus": r.BurstBonus,
		}
		if drop != "" {
			payload["gemDrop"] = drop
		}
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryTaskComplete,
			Summary: summary,
			Payload: payload,
			Undo:    &model.UndoDescriptor{Kind: model.UndoTaskCompletion, TaskCompletion: &undo},
		})

		out = Completion{
			TaskID:       t.ID,
			RecordID:     rec.ID,
			HistoryID:    entry.ID,
			RewardCoins:  r.Coins,
			RewardExp:    r.Exp,
			ComboBonus:   r.BurstBonus,
			ComboCount:   s.Burst.ComboCount,
			Streak:       st.Streak,
			StreakActive: st.Active,
			GemDrop:      drop,
		}
		category = t.Category
		out.MapsAdvanced = e.maps.Progress(s, category)
		return nil
	})
	if err != nil {
		return Completion{}, err
	}
	e.rec.Completion(category, out.RewardCoins, out.RewardExp)
	out.Unlocked = c.Unlocked
	out.MapsCreated = c.MapsCreated
	return out, nil
}

func lockedPrerequisites(s *model.WorldState, keys []string) []string {
	var locked []string
	for _, k := range keys {
		if s.IsUnlocked(k) {
			continue
		}
		name := k
		if i := s.AchievementIndex(k); i >= 0 && s.Achievements[i].Name != "" {
			name = s.Achievements[i].Name
		}
		locked = append(locked, name)
	}
	return locked
}

// RemoveTask deletes a task. It is not recorded in history and cannot be
// undone.
func (e *Engine) RemoveTask(ctx context.Context, taskID string) error {
	_, err := e.update(ctx, "remove_task", func(tx *txn) error {
		i := tx.s.TaskIndex(taskID)
		if i < 0 {
			return model.Fail(model.CodeNotFound, "task not found")
		}
		tx.s.Tasks = slices.Delete(tx.s.Tasks, i, i+1)
		return nil
	})
	return err
}

// Tasks lists the current tasks, most recent first.
func (e *Engine) Tasks() []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Task, len(e.state.Tasks))
	for i, t := range e.state.Tasks {
		out[i] = t.Clone()
	}
	return out
}
