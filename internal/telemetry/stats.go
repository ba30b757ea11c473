// Package telemetry derives balance statistics from the history log and
// completion records.
package telemetry

import (
	"math"
	"time"

	"lifequest/internal/model"
)

type Stats struct {
	Period          string                    `json:"period"`
	Days            int                       `json:"days"`
	EventCounts     map[model.HistoryType]int `json:"event_counts"`
	TaskCompletions int                       `json:"task_completions"`
	TasksPerDay     float64                   `json:"tasks_per_day"`
	ByCategory      map[string]int            `json:"by_category"`
	CoinsEarned     int                       `json:"coins_earned"`
	ExpEarned       int                       `json:"exp_earned"`
	CoinsSpent      int                       `json:"coins_spent"`
	GemsFound       map[string]int            `json:"gems_found"`
	GemsFused       int                       `json:"gems_fused"`
	TicketsBought   int                       `json:"tickets_bought"`
	TicketsUsed     int                       `json:"tickets_used"`
	MapsCompleted   int                       `json:"maps_completed"`
	ClaimsUsed      int                       `json:"claims_used"`
	Undos           int                       `json:"undos"`
}

// CalculateStats summarises activity in [since, now]. Undone entries are
// ignored; reverted completions are already gone from records.
func CalculateStats(entries []model.HistoryEntry, records []model.CompletionRecord, since, now time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		Days:        max(1, int(math.Ceil(now.Sub(since).Hours()/24))),
		EventCounts: make(map[model.HistoryType]int),
		ByCategory:  make(map[string]int),
		GemsFound:   make(map[string]int),
	}

	for _, r := range records {
		if r.CompletedAt.Before(since) || r.CompletedAt.After(now) {
			continue
		}
		stats.TaskCompletions++
		stats.ByCategory[r.Category]++
		stats.CoinsEarned += r.Coins
		stats.ExpEarned += r.Exp
	}

	for _, e := range entries {
		if e.Undone || e.Timestamp.Before(since) || e.Timestamp.After(now) {
			continue
		}
		stats.EventCounts[e.Type]++

		switch e.Type {
		case model.HistoryCoinsSpend:
			stats.CoinsSpent += payloadInt(e.Payload, "amount")
		case model.HistoryTicketExchange:
			stats.TicketsBought++
			stats.CoinsSpent += payloadInt(e.Payload, "cost")
		case model.HistoryTicketUse:
			stats.TicketsUsed++
		case model.HistoryGemAdd:
			if g, ok := e.Payload["gem"].(string); ok {
				stats.GemsFound[g] += payloadInt(e.Payload, "count")
			}
		case model.HistoryTaskComplete:
			if g, ok := e.Payload["gemDrop"].(string); ok && g != "" {
				stats.GemsFound[g]++
			}
		case model.HistoryGemFuse:
			stats.GemsFused++
		case model.HistoryMapComplete:
			stats.MapsCompleted++
		case model.HistoryClaimUse:
			stats.ClaimsUsed++
		case model.HistoryUndo:
			stats.Undos++
		}
	}

	stats.TasksPerDay = float64(stats.TaskCompletions) / float64(stats.Days)
	return stats
}

// payloadInt reads a number that may be an int (fresh entry) or a float64
// (entry decoded from storage).
func payloadInt(p map[string]any, key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
