package store

import (
	"fmt"

	"lifequest/internal/model"
)

// migration upgrades a generic document by exactly one schema version.
// lim fills in stats the document never stored.
type migration func(doc map[string]any, lim model.StatLimits) error

// migrations[v] lifts a version v document to v+1.
var migrations = map[int]migration{
	0: migrateV0,
	1: migrateV1,
	2: migrateV2,
}

// Migrate runs the pipeline from the document's schemaVersion up to the
// current version and returns the version it started from. Documents
// without a version are treated as v0.
func Migrate(doc map[string]any, lim model.StatLimits) (int, error) {
	from := 0
	if raw, ok := doc["schemaVersion"]; ok {
		n, ok := asInt(raw)
		if !ok {
			return 0, fmt.Errorf("schemaVersion is not a number: %v", raw)
		}
		from = n
	}
	if from > model.SchemaVersion {
		return from, fmt.Errorf("document version %d is newer than supported %d", from, model.SchemaVersion)
	}
	for v := from; v < model.SchemaVersion; v++ {
		m, ok := migrations[v]
		if !ok {
			return from, fmt.Errorf("no migration from version %d", v)
		}
		if err := m(doc, lim); err != nil {
			return from, fmt.Errorf("migrate v%d: %w", v, err)
		}
		doc["schemaVersion"] = v + 1
	}
	return from, nil
}

// v0 kept the wallet in a flat "gold" field and called experience "xp".
// Early v0 saves may also lack stats, the world clock or the task list.
func migrateV0(doc map[string]any, lim model.StatLimits) error {
	if _, ok := doc["stats"].(map[string]any); !ok {
		doc["stats"] = map[string]any{"life": lim.Life, "sanity": lim.Sanity, "hunger": lim.Hunger}
	}
	if _, ok := doc["world"].(map[string]any); !ok {
		doc["world"] = map[string]any{"day": 0, "lastRefreshDay": ""}
	}
	if v, ok := doc["tasks"]; !ok || v == nil {
		doc["tasks"] = []any{}
	}

	cur, _ := doc["currency"].(map[string]any)
	if cur == nil {
		cur = map[string]any{"coins": 0}
	}
	if gold, ok := doc["gold"]; ok {
		n, ok := asInt(gold)
		if !ok {
			return fmt.Errorf("gold is not a number")
		}
		cur["coins"] = n
		delete(doc, "gold")
	}
	if _, ok := cur["coins"]; !ok {
		cur["coins"] = 0
	}
	doc["currency"] = cur

	if xp, ok := doc["xp"]; ok {
		if _, has := doc["exp"]; !has {
			doc["exp"] = xp
		}
		delete(doc, "xp")
	}
	if _, ok := doc["exp"]; !ok {
		doc["exp"] = 0
	}
	return nil
}

// v1 stored a task streak as a bare counter and left status implicit.
func migrateV1(doc map[string]any, _ model.StatLimits) error {
	day := 0
	if w, ok := doc["world"].(map[string]any); ok {
		day, _ = asInt(w["day"])
	}
	tasks, _ := doc["tasks"].([]any)
	for i, raw := range tasks {
		t, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("task %d is not an object", i)
		}
		if _, ok := t["status"]; !ok {
			t["status"] = string(model.StatusTodo)
		}
		switch s := t["streak"].(type) {
		case nil:
			t["streak"] = map[string]any{"count": 0, "lastDay": 0}
		case map[string]any:
		default:
			n, ok := asInt(s)
			if !ok {
				return fmt.Errorf("task %d streak is not a number", i)
			}
			last := 0
			if n > 0 {
				last = day
			}
			t["streak"] = map[string]any{"count": n, "lastDay": last}
		}
	}
	return nil
}

// v2 predates combos, tickets, gems, treasure maps and vouchers.
func migrateV2(doc map[string]any, _ model.StatLimits) error {
	defaults := map[string]func() any{
		"burst":        func() any { return map[string]any{"lastKind": "", "comboCount": 0} },
		"tickets":      func() any { return map[string]any{model.TicketGame: 0} },
		"gems":         func() any { return map[string]any{} },
		"treasureMaps": func() any { return []any{} },
		"triggerKeys":  func() any { return []any{} },
		"claims":       func() any { return []any{} },
	}
	for key, fn := range defaults {
		if v, ok := doc[key]; !ok || v == nil {
			doc[key] = fn()
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
