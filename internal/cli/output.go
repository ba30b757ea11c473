package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"lifequest/internal/model"
)

type printer struct {
	w            io.Writer
	json         bool
	coinsPerUnit int
}

// emit prints v as JSON, or runs text for the human form.
func (p printer) emit(v any, text func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(p.w)
	return nil
}

func (p printer) table(header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func (p printer) wallet(coins int) string {
	if p.coinsPerUnit <= 0 {
		return fmt.Sprintf("%d coins", coins)
	}
	return fmt.Sprintf("%d coins (%.2f)", coins, float64(coins)/float64(p.coinsPerUnit))
}

func formatReward(r model.Reward) string {
	var parts []string
	if r.Coins != 0 {
		parts = append(parts, fmt.Sprintf("%d coins", r.Coins))
	}
	if r.Exp != 0 {
		parts = append(parts, fmt.Sprintf("%d exp", r.Exp))
	}
	if r.Claim != nil {
		parts = append(parts, "voucher: "+r.Claim.Name)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func formatDelta(d model.StatDelta) string {
	if d.IsZero() {
		return "-"
	}
	var parts []string
	for _, f := range []struct {
		name string
		v    int
	}{{"life", d.Life}, {"sanity", d.Sanity}, {"hunger", d.Hunger}} {
		if f.v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", f.name, f.v))
		}
	}
	return strings.Join(parts, " ")
}
