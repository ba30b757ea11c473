// Package metrics exposes reducer activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifequest/internal/model"
)

const namespace = "lifequest"

// Metrics owns its registry so several engines (or tests) never collide on
// the process-wide default one.
type Metrics struct {
	reg *prometheus.Registry

	operations  *prometheus.CounterVec
	completions *prometheus.CounterVec
	coinsEarned prometheus.Counter
	expEarned   prometheus.Counter

	coins   prometheus.Gauge
	exp     prometheus.Gauge
	level   prometheus.Gauge
	day     prometheus.Gauge
	stats   *prometheus.GaugeVec
	tickets prometheus.Gauge
	history prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "operations_total",
			Help:      "Reducer operations by name and result code (ok on success).",
		}, []string{"op", "code"}),
		completions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "completions_total",
			Help:      "Task completions by category.",
		}, []string{"category"}),
		coinsEarned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "coins_earned_total",
			Help:      "Coins granted by task completions.",
		}),
		expEarned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "exp_earned_total",
			Help:      "Experience granted by task completions.",
		}),
		coins: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "player",
			Name:      "coins",
			Help:      "Current coin balance.",
		}),
		exp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "player",
			Name:      "exp",
			Help:      "Total experience.",
		}),
		level: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "player",
			Name:      "level",
			Help:      "Level derived from experience.",
		}),
		day: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "day",
			Help:      "Current day index.",
		}),
		stats: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "player",
			Name:      "stat",
			Help:      "Current vital stats.",
		}, []string{"stat"}),
		tickets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "player",
			Name:      "game_tickets",
			Help:      "Unspent game tickets.",
		}),
		history: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "history_entries",
			Help:      "Entries held in the in-memory history log.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Operation(op string, code model.Code) {
	c := string(code)
	if c == "" {
		c = "ok"
	}
	m.operations.WithLabelValues(op, c).Inc()
}

func (m *Metrics) Completion(category string, coins, exp int) {
	m.completions.WithLabelValues(category).Inc()
	m.coinsEarned.Add(float64(coins))
	m.expEarned.Add(float64(exp))
}

func (m *Metrics) Snapshot(s *model.WorldState) {
	if s == nil {
		return
	}
	m.coins.Set(float64(s.Currency.Coins))
	m.exp.Set(float64(s.Exp))
	m.level.Set(float64(model.LevelForExp(s.Exp)))
	m.day.Set(float64(s.World.Day))
	m.stats.WithLabelValues("life").Set(float64(s.Stats.Life))
	m.stats.WithLabelValues("sanity").Set(float64(s.Stats.Sanity))
	m.stats.WithLabelValues("hunger").Set(float64(s.Stats.Hunger))
	m.tickets.Set(float64(s.Tickets[model.TicketGame]))
	m.history.Set(float64(len(s.History)))
}
