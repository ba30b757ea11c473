package model

type Stats struct {
	Life   int `json:"life"`
	Sanity int `json:"sanity"`
	Hunger int `json:"hunger"`
}

// StatDelta is a signed change applied to Stats.
type StatDelta struct {
	Life   int `json:"life,omitempty" yaml:"life,omitempty"`
	Sanity int `json:"sanity,omitempty" yaml:"sanity,omitempty"`
	Hunger int `json:"hunger,omitempty" yaml:"hunger,omitempty"`
}

func (d StatDelta) IsZero() bool {
	return d.Life == 0 && d.Sanity == 0 && d.Hunger == 0
}

func (d StatDelta) Add(o StatDelta) StatDelta {
	return StatDelta{Life: d.Life + o.Life, Sanity: d.Sanity + o.Sanity, Hunger: d.Hunger + o.Hunger}
}

// StatLimits holds the per-field maxima. The floor is always 0.
type StatLimits struct {
	Life   int `json:"life" yaml:"life" toml:"life"`
	Sanity int `json:"sanity" yaml:"sanity" toml:"sanity"`
	Hunger int `json:"hunger" yaml:"hunger" toml:"hunger"`
}

var DefaultStatLimits = StatLimits{Life: 100, Sanity: 120, Hunger: 100}

// Apply adds d to s and clamps every field into [0, limit].
func (s Stats) Apply(d StatDelta, lim StatLimits) Stats {
	return Stats{
		Life:   clamp(s.Life+d.Life, 0, lim.Life),
		Sanity: clamp(s.Sanity+d.Sanity, 0, lim.Sanity),
		Hunger: clamp(s.Hunger+d.Hunger, 0, lim.Hunger),
	}
}

// Clamp forces every field into [0, limit].
func (s Stats) Clamp(lim StatLimits) Stats {
	return s.Apply(StatDelta{}, lim)
}

// Requirements are minimum thresholds a player must hold to attempt a task.
type Requirements struct {
	Life   int `json:"life,omitempty" yaml:"life,omitempty"`
	Sanity int `json:"sanity,omitempty" yaml:"sanity,omitempty"`
	Hunger int `json:"hunger,omitempty" yaml:"hunger,omitempty"`
	Coins  int `json:"coins,omitempty" yaml:"coins,omitempty"`
}

// Missing lists the fields of r that s and coins do not satisfy.
func (r Requirements) Missing(s Stats, coins int) []string {
	var out []string
	if s.Life < r.Life {
		out = append(out, "life")
	}
	if s.Sanity < r.Sanity {
		out = append(out, "sanity")
	}
	if s.Hunger < r.Hunger {
		out = append(out, "hunger")
	}
	if coins < r.Coins {
		out = append(out, "coins")
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
