package achievement

import "lifequest/internal/model"

// Defaults is the built-in achievement set.
func Defaults() []Template {
	return []Template{
		{
			Key:         "bookworm",
			Name:        "Bookworm",
			Description: "Finish 10 reading sessions.",
			Condition:   Condition{Type: TagCount, Tag: "reading", Target: 10},
			Reward:      model.Reward{Coins: 100, Claim: &model.ClaimGrant{Type: "book", Name: "Buy a new book"}},
		},
		{
			Key:         "scholar",
			Name:        "Scholar",
			Description: "Study on 7 days in a row.",
			Condition:   Condition{Type: CourseStreak, Category: "study", Target: 7},
			Reward:      model.Reward{Coins: 150, Exp: 200},
		},
		{
			Key:         "iron_day",
			Name:        "Iron Day",
			Description: "Complete 3 fitness tasks in a single day.",
			Condition:   Condition{Type: CourseDaily, Category: "fitness", Target: 3},
			Reward:      model.Reward{Exp: 50, Stats: model.StatDelta{Life: 10}},
		},
		{
			Key:         "clean_week",
			Name:        "Clean Week",
			Description: "Go 7 days without junk food.",
			Condition:   Condition{Type: NoTagDays, Tag: "junk_food", Target: 7},
			Reward:      model.Reward{Stats: model.StatDelta{Sanity: 10}, Claim: &model.ClaimGrant{Type: "treat", Name: "Cheat meal"}},
		},
		{
			Key:         "early_bird",
			Name:        "Early Bird",
			Description: "Complete 20 morning routine tasks.",
			Condition:   Condition{Type: TagCount, Tag: "morning", Target: 20},
			Reward:      model.Reward{Coins: 80, Exp: 40},
		},
	}
}
