package world

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifequest/internal/achievement"
	"lifequest/internal/catalog"
	"lifequest/internal/clock"
	"lifequest/internal/config"
	"lifequest/internal/event"
	"lifequest/internal/gem"
	"lifequest/internal/model"
	"lifequest/internal/treasure"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	e     *Engine
	clock *clock.FakeClock
	repo  *MemoryRepo
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Calendar = clock.NewCalendar(epoch, time.UTC)
	s.EventChance = 0
	s.GemDropChance = 0
	return s
}

func newHarness(t *testing.T, cat *catalog.Catalog, mutate ...func(*Settings)) harness {
	t.Helper()
	settings := testSettings()
	for _, m := range mutate {
		m(&settings)
	}
	n := 0
	fc := clock.NewFakeClock(epoch.AddDate(0, 0, 5).Add(9 * time.Hour))
	repo := NewMemoryRepo()
	e := New(nil, cat, settings,
		WithClock(fc),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithRand(rand.New(rand.NewSource(1))),
		WithPersister(repo),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return harness{e: e, clock: fc, repo: repo}
}

func boolPtr(b bool) *bool { return &b }

func (h harness) task(t *testing.T, in TaskInput) model.Task {
	t.Helper()
	task, err := h.e.RegisterTask(context.Background(), in)
	require.NoError(t, err)
	return task
}

func (h harness) nextDay(t *testing.T, n int) {
	t.Helper()
	h.clock.AdvanceDays(n)
	_, err := h.e.RefreshTime(context.Background())
	require.NoError(t, err)
}

func TestCompleteTask_EndToEnd(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{Title: "Laundry", Category: "life", Difficulty: 2, Minutes: 20, Repeatable: boolPtr(true)})
	assert.Equal(t, 40, task.CoinsReward)
	assert.Equal(t, 20, task.Exp)

	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.RewardCoins)
	assert.Equal(t, 20, got.RewardExp)
	assert.Zero(t, got.ComboBonus)

	s := h.e.State()
	assert.Equal(t, 40, s.Currency.Coins)
	assert.Equal(t, 20, s.Exp)
	assert.Equal(t, model.StatusTodo, s.Tasks[0].Status)
	require.Len(t, s.CompletedTasks, 1)
	assert.Equal(t, task.ID, s.CompletedTasks[0].TaskID)

	last := s.History[len(s.History)-1]
	assert.Equal(t, model.HistoryTaskComplete, last.Type)
	assert.True(t, last.Undoable)
	assert.Equal(t, got.HistoryID, last.ID)

	saved := h.repo.Last()
	require.NotNil(t, saved)
	assert.Equal(t, 40, saved.Currency.Coins)
	assert.Len(t, h.repo.History(), len(s.History))
}

func TestCompleteTask_NonRepeatableIsTerminal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{Title: "File taxes", Category: "life", Difficulty: 4, Minutes: 60})

	_, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	before := h.e.State()
	saves := h.repo.Saves()

	_, err = h.e.CompleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
	assert.Equal(t, before, h.e.State())
	assert.Equal(t, saves, h.repo.Saves(), "failed operations are not persisted")
}

func TestCompleteTask_Validation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.CompleteTask(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)

	rich := h.task(t, TaskInput{Title: "Buy gear", Requirements: &model.Requirements{Coins: 10}})
	_, err = h.e.CompleteTask(ctx, rich.ID)
	assert.ErrorIs(t, err, model.ErrRequirementsNotMet)
	assert.Contains(t, err.Error(), "coins")

	locked := h.task(t, TaskInput{Title: "Thesis", Prerequisites: []string{"scholar"}})
	_, err = h.e.CompleteTask(ctx, locked.ID)
	assert.ErrorIs(t, err, model.ErrPrerequisitesNotMet)
	assert.Contains(t, err.Error(), "Scholar")
}

func TestRegisterTask_FromTemplate(t *testing.T) {
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{TemplateID: "read_30", Minutes: 60})

	assert.Equal(t, "Read for 30 minutes", task.Title)
	assert.Equal(t, "study", task.Category)
	assert.Equal(t, 3, task.Difficulty)
	assert.Equal(t, 60, task.Minutes)
	assert.True(t, task.Repeatable)
	assert.Equal(t, []string{"reading"}, task.Tags)

	_, err := h.e.RegisterTask(context.Background(), TaskInput{TemplateID: "missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = h.e.RegisterTask(context.Background(), TaskInput{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRegisterTask_NewestFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.task(t, TaskInput{Title: "first"})
	h.task(t, TaskInput{Title: "second"})

	tasks := h.e.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title)
}

func TestCompleteTask_Combo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.task(t, TaskInput{Title: "a", Category: "life", Repeatable: boolPtr(true)})
	b := h.task(t, TaskInput{Title: "b", Category: "fitness", Repeatable: boolPtr(true)})

	for range 3 {
		_, err := h.e.CompleteTask(ctx, a.ID)
		require.NoError(t, err)
	}
	got, err := h.e.CompleteTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ComboCount)
	assert.InDelta(t, 0.15, got.ComboBonus, 1e-9)

	got, err = h.e.CompleteTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ComboCount)
}

func TestCompleteTask_StreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	task := h.task(t, TaskInput{Title: "Stretch", Category: "life", Difficulty: 1, Minutes: 10, Repeatable: boolPtr(true)})

	_, err = h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	h.nextDay(t, 1)
	_, err = h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	h.nextDay(t, 1)
	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, model.Streak{Count: 3, LastDay: 7}, got.Streak)
	assert.True(t, got.StreakActive)
	// combo 3 gives 11 coins, the active streak scales it to 13
	assert.Equal(t, 13, got.RewardCoins)
}

func TestCompleteTask_StreakBreaksOnGap(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	task := h.task(t, TaskInput{Title: "Stretch", Repeatable: boolPtr(true)})

	_, err = h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	h.nextDay(t, 2)
	assert.Equal(t, 0, h.e.Tasks()[0].Streak.Count, "missed day decays the streak on rollover")

	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak.Count)
	assert.False(t, got.StreakActive)
}

func TestUndo_CompletionRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{Title: "Lecture", Category: "study", Kind: "study", Difficulty: 3, Minutes: 30, Effect: &model.StatDelta{Hunger: -20, Sanity: 5}})
	before := h.e.State()

	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 108, got.RewardCoins)
	assert.Equal(t, 54, got.RewardExp)

	out, err := h.e.UndoHistoryItem(ctx, got.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, model.HistoryTaskComplete, out.Reverted.Type)

	after := h.e.State()
	assert.Equal(t, before.Currency, after.Currency)
	assert.Equal(t, before.Exp, after.Exp)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, model.StatusTodo, after.Tasks[0].Status)
	assert.Nil(t, after.Tasks[0].CompletedAt)
	assert.Empty(t, after.CompletedTasks)
	assert.Equal(t, model.HistoryUndo, after.History[len(after.History)-1].Type)

	_, err = h.e.UndoHistoryItem(ctx, got.HistoryID)
	assert.ErrorIs(t, err, model.ErrAlreadyUndone)

	// the task can be completed again after the undo
	_, err = h.e.CompleteTask(ctx, task.ID)
	assert.NoError(t, err)
}

func TestUndo_Failures(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.UndoLastAction(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = h.e.UndoHistoryItem(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	task := h.task(t, TaskInput{Title: "x"})
	hist := h.e.History(1)
	require.Len(t, hist, 1)
	assert.Equal(t, task.ID, hist[0].Payload["taskId"])
	_, err = h.e.UndoHistoryItem(ctx, hist[0].ID)
	assert.ErrorIs(t, err, model.ErrNotUndoable)
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.SpendCoins(ctx, 10, "")
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	_, err = h.e.AddCoins(ctx, 0, "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	bal, err := h.e.AddCoins(ctx, 100, "birthday")
	require.NoError(t, err)
	assert.Equal(t, 100, bal.Coins)

	bal, err = h.e.SpendCoins(ctx, 30, "snack")
	require.NoError(t, err)
	assert.Equal(t, 70, bal.Coins)

	bal, err = h.e.GrantExp(ctx, 15, "")
	require.NoError(t, err)
	assert.Equal(t, 15, bal.Exp)

	_, err = h.e.UndoHistoryItem(ctx, bal.HistoryID)
	require.NoError(t, err)
	out, err := h.e.UndoLastAction(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.HistoryCoinsSpend, out.Reverted.Type)

	s := h.e.State()
	assert.Equal(t, 100, s.Currency.Coins)
	assert.Equal(t, 0, s.Exp)
}

func TestTickets(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.ExchangeCoinsForGameTicket(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	_, err = h.e.UseGameTicket(ctx)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)

	_, err = h.e.AddCoins(ctx, 120, "")
	require.NoError(t, err)
	bal, err := h.e.ExchangeCoinsForGameTicket(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, bal.Tickets)
	assert.Equal(t, 70, bal.Coins)

	used, err := h.e.UseGameTicket(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, used.Tickets)

	_, err = h.e.UndoHistoryItem(ctx, used.HistoryID)
	require.NoError(t, err)
	_, err = h.e.UndoHistoryItem(ctx, bal.HistoryID)
	require.NoError(t, err)

	s := h.e.State()
	assert.Equal(t, 0, s.Tickets[model.TicketGame])
	assert.Equal(t, 120, s.Currency.Coins)
}

func TestGems_FuseDiamondSpawnsMap(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.FuseGem(ctx, gem.Diamond)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	_, err = h.e.AddGems(ctx, "opal", 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	added, err := h.e.AddGems(ctx, gem.Diamond, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, added.Count)

	got, err := h.e.FuseGem(ctx, gem.Diamond)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
	assert.Equal(t, "jackpot", got.Claim.Type)
	require.NotNil(t, got.Map)
	assert.Equal(t, model.TierS, got.Map.Tier)

	s := h.e.State()
	assert.Equal(t, 350, s.Exp, "fusion exp plus the map's base reward")
	assert.Equal(t, 100, s.Currency.Coins)
	assert.Len(t, s.TreasureMaps, 1)
	assert.False(t, s.History[len(s.History)-1].Undoable)

	_, err = h.e.UndoHistoryItem(ctx, added.HistoryID)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance, "fused gems cannot be taken back")
}

func TestGems_QuartzDoesNotSpawnMap(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.AddGems(ctx, gem.Quartz, 4)
	require.NoError(t, err)

	got, err := h.e.FuseGem(ctx, gem.Quartz)
	require.NoError(t, err)
	assert.Nil(t, got.Map)
	assert.Equal(t, 1, got.Remaining)
}

func TestGems_DropOnCompletion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, func(s *Settings) { s.GemDropChance = 1 })
	task := h.task(t, TaskInput{Title: "x", Repeatable: boolPtr(true)})

	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.GemDrop)
	assert.Equal(t, 1, h.e.State().Gems[got.GemDrop])

	_, err = h.e.UndoHistoryItem(ctx, got.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, 0, h.e.State().Gems[got.GemDrop])
}

func TestTreasureMaps(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.e.AddTreasureMap(ctx, MapInput{Tier: model.TierB})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = h.e.AddTreasureMap(ctx, MapInput{Name: "x", Tier: "Z"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	m, err := h.e.AddTreasureMap(ctx, MapInput{Name: "Chores", Tier: model.TierB, TargetTasks: 2, TargetCategories: []string{"life"}})
	require.NoError(t, err)
	assert.Equal(t, 20, h.e.State().Currency.Coins, "base reward is granted on discovery")

	_, err = h.e.CompleteTreasureMap(ctx, m.ID)
	assert.ErrorIs(t, err, model.ErrProgressInsufficient)

	life := h.task(t, TaskInput{Title: "dishes", Category: "life", Repeatable: boolPtr(true)})
	other := h.task(t, TaskInput{Title: "pushups", Category: "fitness", Repeatable: boolPtr(true)})
	for _, id := range []string{other.ID, life.ID, life.ID, life.ID} {
		_, err := h.e.CompleteTask(ctx, id)
		require.NoError(t, err)
	}
	cur := h.e.State().TreasureMaps[0]
	assert.Equal(t, 2, cur.CompletedTasks)
	assert.Equal(t, model.MapActive, cur.Status)

	coins := h.e.State().Currency.Coins
	done, err := h.e.CompleteTreasureMap(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MapCompleted, done.Status)
	assert.Equal(t, coins+100, h.e.State().Currency.Coins)

	_, err = h.e.CompleteTreasureMap(ctx, m.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
	_, err = h.e.CompleteTreasureMap(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompleteTask_CascadeTriggersAndAchievements(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	cat.Achievements = []achievement.Template{{
		Key:       "tidy",
		Name:      "Tidy",
		Condition: achievement.Condition{Type: achievement.TagCount, Tag: "chore", Target: 1},
		Reward:    model.Reward{Coins: 5},
	}}
	cat.Triggers = []treasure.Rule{{
		Key: "chores", Kind: treasure.CompletionCount, Category: "life", Subtype: "chore", Threshold: 2,
		Map: treasure.ForTier(model.TierB, "Chore Map", ""),
	}}
	h := newHarness(t, cat)
	task := h.task(t, TaskInput{Title: "sweep", Category: "life", Subtype: "chore", Tags: []string{"chore"}, Repeatable: boolPtr(true)})

	first, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, first.Unlocked, 1)
	assert.Equal(t, "tidy", first.Unlocked[0].Key)
	assert.Empty(t, first.MapsCreated)

	second, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Unlocked)
	require.Len(t, second.MapsCreated, 1)
	assert.Equal(t, "chores", second.MapsCreated[0].TriggerKey)

	third, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, third.MapsCreated, "each trigger fires once")

	// Undo leaves unlocked achievements and triggered maps in place.
	_, err = h.e.UndoHistoryItem(ctx, first.HistoryID)
	require.NoError(t, err)
	s := h.e.State()
	assert.True(t, s.IsUnlocked("tidy"))
	assert.Len(t, s.TreasureMaps, 1)
}

func TestUseClaim(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.AddGems(ctx, gem.Quartz, 3)
	require.NoError(t, err)
	fused, err := h.e.FuseGem(ctx, gem.Quartz)
	require.NoError(t, err)

	c, err := h.e.UseClaim(ctx, fused.Claim.ID)
	require.NoError(t, err)
	assert.True(t, c.Used)
	require.NotNil(t, c.UsedAt)

	_, err = h.e.UseClaim(ctx, fused.Claim.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
	_, err = h.e.UseClaim(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemoveTask(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{Title: "x"})
	entries := len(h.e.History(0))

	require.NoError(t, h.e.RemoveTask(ctx, task.ID))
	assert.Empty(t, h.e.Tasks())
	assert.Len(t, h.e.History(0), entries, "removal is not recorded")
	assert.ErrorIs(t, h.e.RemoveTask(ctx, task.ID), model.ErrNotFound)
}

func TestRefreshTime_NoOpWithoutRollover(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	first, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, 5, first.Day)
	assert.Equal(t, "2026-01-06", first.Date)
	saves := h.repo.Saves()

	h.clock.Advance(time.Hour)
	again, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, saves, h.repo.Saves())
}

func TestRefreshTime_FirstRunSameDayKeepsStreaks(t *testing.T) {
	ctx := context.Background()
	st := model.NewWorldState(model.DefaultStatLimits)
	st.World.Day = 5
	st.Tasks = append(st.Tasks, model.Task{
		ID:           "t1",
		Title:        "Run",
		Status:       model.StatusTodo,
		Repeatable:   true,
		Streak:       model.Streak{Count: 4, LastDay: 5},
		StreakActive: true,
	})
	e := New(st, nil, testSettings(),
		WithClock(clock.NewFakeClock(epoch.AddDate(0, 0, 5).Add(9*time.Hour))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	res, err := e.RefreshTime(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 5, res.Day)
	assert.Zero(t, res.StreaksReset)

	task := e.Tasks()[0]
	assert.Equal(t, model.Streak{Count: 4, LastDay: 5}, task.Streak)
	assert.True(t, task.StreakActive)
}

func TestRefreshTime_DailyDrift(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Life: 100, Sanity: 120, Hunger: 100}, h.e.State().Stats, "first refresh does not drift")

	h.nextDay(t, 2)
	s := h.e.State()
	assert.Equal(t, 7, s.World.Day)
	assert.Equal(t, 80, s.Stats.Hunger)
	assert.Equal(t, 110, s.Stats.Sanity)
}

func TestRefreshTime_EventModifiesRewards(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	cat.Events = event.Catalog{{ID: "gold_rush", Name: "Gold Rush", Weight: 1, Modifier: model.EventModifier{CoinMult: 2}}}
	h := newHarness(t, cat, func(s *Settings) { s.EventChance = 1 })

	res, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, 5, res.Event.Day)

	task := h.task(t, TaskInput{Title: "Laundry", Category: "life", Difficulty: 2, Minutes: 20})
	got, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.RewardCoins)
	assert.Equal(t, 20, got.RewardExp)

	h.clock.AdvanceDays(1)
	res, err = h.e.RefreshTime(ctx)
	require.NoError(t, err)
	assert.True(t, res.EventCleared)
	require.NotNil(t, res.Event, "a new event is drawn for the new day")
	assert.Equal(t, 6, res.Event.Day)
}

func TestHistory_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, func(s *Settings) { s.HistoryMax = 3 })
	for i := 1; i <= 5; i++ {
		_, err := h.e.AddCoins(ctx, i, "")
		require.NoError(t, err)
	}

	all := h.e.History(0)
	require.Len(t, all, 3)
	assert.Equal(t, "Added 5 coins", all[0].Summary)
	assert.Equal(t, "Added 3 coins", all[2].Summary)
	assert.Len(t, h.e.History(2), 2)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	_, err := h.e.RefreshTime(ctx)
	require.NoError(t, err)
	_, err = h.e.GrantExp(ctx, 150, "")
	require.NoError(t, err)
	_, err = h.e.AddCoins(ctx, 250, "")
	require.NoError(t, err)
	h.task(t, TaskInput{Title: "open"})

	sum := h.e.Summary()
	assert.Equal(t, 5, sum.Day)
	assert.Equal(t, 2, sum.Level)
	assert.Equal(t, 282, sum.NextLevelExp)
	assert.InDelta(t, 2.5, sum.Wallet, 1e-9)
	assert.Equal(t, 1, sum.OpenTasks)
}

func TestNew_ClonesInitialState(t *testing.T) {
	s := model.NewWorldState(model.DefaultStatLimits)
	s.Currency.Coins = 7
	e := New(s, nil, testSettings(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	s.Currency.Coins = 99
	assert.Equal(t, 7, e.State().Currency.Coins)
}

func TestStats_WindowCountsWholeDays(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	task := h.task(t, TaskInput{Title: "Read", Category: "study", Minutes: 30, Repeatable: boolPtr(true)})
	_, err := h.e.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	st := h.e.Stats(1)
	assert.Equal(t, 1, st.TaskCompletions)
	assert.Equal(t, map[string]int{"study": 1}, st.ByCategory)

	h.nextDay(t, 3)
	assert.Zero(t, h.e.Stats(1).TaskCompletions)
	assert.Equal(t, 1, h.e.Stats(7).TaskCompletions)
}

func TestSettingsFromConfig_HistoryHoldsPersistedEntries(t *testing.T) {
	cfg := config.Default()
	cfg.History.MaxEntries = 50
	cfg.History.PersistCap = 120
	s, err := SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 120, s.HistoryMax)

	cfg.History.MaxEntries = 300
	s, err = SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 300, s.HistoryMax)
}
