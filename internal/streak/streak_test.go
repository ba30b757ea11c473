package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifequest/internal/model"
)

func TestUpdate_ConsecutiveDaysActivate(t *testing.T) {
	var s model.Streak

	r := Update(s, 5, DefaultThreshold)
	assert.Equal(t, model.Streak{Count: 1, LastDay: 5}, r.Streak)
	assert.False(t, r.Active)

	r = Update(r.Streak, 6, DefaultThreshold)
	assert.Equal(t, 2, r.Streak.Count)
	assert.False(t, r.Active)

	r = Update(r.Streak, 7, DefaultThreshold)
	assert.Equal(t, 3, r.Streak.Count)
	assert.True(t, r.Active)
}

func TestUpdate_GapResets(t *testing.T) {
	r := Update(model.Streak{}, 5, DefaultThreshold)
	r = Update(r.Streak, 7, DefaultThreshold)

	assert.Equal(t, model.Streak{Count: 1, LastDay: 7}, r.Streak)
	assert.False(t, r.Active)
}

func TestUpdate_SameDayIsIdempotent(t *testing.T) {
	cur := model.Streak{Count: 4, LastDay: 9}
	r := Update(cur, 9, DefaultThreshold)

	assert.Equal(t, cur, r.Streak)
	assert.True(t, r.Active)
}

func TestUpdate_NeverStartedOnDayOne(t *testing.T) {
	// A zero streak has LastDay 0; completing on day 1 must not look consecutive.
	r := Update(model.Streak{}, 1, DefaultThreshold)
	assert.Equal(t, 1, r.Streak.Count)
}

func TestResetMissed(t *testing.T) {
	kept, changed := ResetMissed(model.Streak{Count: 3, LastDay: 9}, 9)
	assert.False(t, changed)
	assert.Equal(t, 3, kept.Count)

	reset, changed := ResetMissed(model.Streak{Count: 3, LastDay: 7}, 9)
	assert.True(t, changed)
	assert.Equal(t, model.Streak{Count: 0, LastDay: 7}, reset)

	today, changed := ResetMissed(model.Streak{Count: 4, LastDay: 10}, 9)
	assert.False(t, changed, "a streak extended after previousDay stays")
	assert.Equal(t, model.Streak{Count: 4, LastDay: 10}, today)

	none, changed := ResetMissed(model.Streak{}, 9)
	assert.False(t, changed)
	assert.Equal(t, model.Streak{}, none)
}
