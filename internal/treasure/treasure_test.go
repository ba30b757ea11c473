package treasure

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifequest/internal/model"
)

var now = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

func newEngine() Engine {
	n := 0
	return Engine{Limits: model.DefaultStatLimits, NewID: func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}}
}

func TestCreate_GrantsBaseRewardImmediately(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)

	m, ok := e.Create(s, ForTier(model.TierA, "Chart", "manual"), "", now)
	require.True(t, ok)
	assert.Equal(t, model.MapNew, m.Status)
	assert.Equal(t, 10, m.TargetTasks)
	assert.Equal(t, 50, s.Currency.Coins)
	assert.Equal(t, 20, s.Exp)
	assert.Len(t, s.TreasureMaps, 1)
	assert.Empty(t, s.TriggerKeys)
}

func TestCreate_TriggerKeyFiresOnce(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)

	_, ok := e.Create(s, ForTier(model.TierB, "One", ""), "k", now)
	require.True(t, ok)
	_, ok = e.Create(s, ForTier(model.TierB, "Two", ""), "k", now)
	assert.False(t, ok)
	assert.Len(t, s.TreasureMaps, 1)
	assert.Equal(t, []string{"k"}, s.TriggerKeys)
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)
	b := ForTier(model.TierB, "Runner", "")
	b.TargetCategories = []string{"fitness"}
	m, _ := e.Create(s, b, "", now)

	assert.Empty(t, e.Progress(s, "study"))
	assert.Equal(t, model.MapNew, s.TreasureMaps[0].Status)

	prev := 0
	for range 8 {
		e.Progress(s, "fitness")
		got := s.TreasureMaps[0]
		assert.GreaterOrEqual(t, got.CompletedTasks, prev)
		assert.LessOrEqual(t, got.CompletedTasks, got.TargetTasks)
		assert.Equal(t, model.MapActive, got.Status)
		prev = got.CompletedTasks
	}
	assert.Equal(t, m.TargetTasks, prev)
}

func TestComplete_Failures(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)
	m, _ := e.Create(s, ForTier(model.TierB, "Small", ""), "", now)

	_, err := e.Complete(s, "nope", now)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.Complete(s, m.ID, now)
	assert.ErrorIs(t, err, model.ErrProgressInsufficient)

	for range 5 {
		e.Progress(s, "anything")
	}
	coins := s.Currency.Coins
	done, err := e.Complete(s, m.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.MapCompleted, done.Status)
	assert.Equal(t, coins+100, s.Currency.Coins)

	_, err = e.Complete(s, m.ID, now)
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)

	e.Progress(s, "anything")
	assert.Equal(t, model.MapCompleted, s.TreasureMaps[0].Status)
}

func TestComplete_BigRewardClaim(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)
	m, _ := e.Create(s, ForTier(model.TierS, "Jackpot", ""), "", now)
	s.TreasureMaps[0].CompletedTasks = m.TargetTasks

	_, err := e.Complete(s, m.ID, now)
	require.NoError(t, err)
	require.Len(t, s.Claims, 1)
	assert.Equal(t, "jackpot", s.Claims[0].Type)
	assert.Equal(t, "map:"+m.ID, s.Claims[0].Source)
}

func TestTrigger_CompletionCount(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)
	rules := []Rule{{Key: "run5", Kind: CompletionCount, Category: "fitness", Subtype: "run", Threshold: 5, Map: ForTier(model.TierB, "Trail", "")}}

	for i := range 4 {
		s.CompletedTasks = append(s.CompletedTasks, model.CompletionRecord{ID: fmt.Sprint(i), Category: "fitness", Subtype: "run"})
	}
	s.CompletedTasks = append(s.CompletedTasks, model.CompletionRecord{ID: "x", Category: "fitness", Subtype: "swim"})
	assert.Empty(t, e.Trigger(s, rules, now))

	s.CompletedTasks = append(s.CompletedTasks, model.CompletionRecord{ID: "5", Category: "fitness", Subtype: "run"})
	created := e.Trigger(s, rules, now)
	require.Len(t, created, 1)
	assert.Equal(t, "trigger:run5", created[0].Source)
	assert.Equal(t, "run5", created[0].TriggerKey)

	assert.Empty(t, e.Trigger(s, rules, now), "a trigger fires only once")
}

func TestTrigger_AchievementUnlock(t *testing.T) {
	e := newEngine()
	s := model.NewWorldState(model.DefaultStatLimits)
	rules := []Rule{{Key: "ach", Kind: AchievementUnlock, Achievement: "scholar", Map: ForTier(model.TierS, "Library", "")}}
	s.Achievements = []model.AchievementState{{Key: "scholar"}}

	assert.Empty(t, e.Trigger(s, rules, now))
	s.Achievements[0].Unlocked = true
	assert.Len(t, e.Trigger(s, rules, now), 1)
}

func TestRules(t *testing.T) {
	require.NoError(t, ValidateRules(DefaultRules()))
	assert.Error(t, ValidateRules([]Rule{{Key: "x", Kind: "weird"}}))
	for _, k := range RuleKinds {
		assert.Contains(t, checks, k)
	}
}
