package dashboard

import (
	"time"

	"github.com/crmdash/leadboard/internal/models"
)

// CountByStatus yields one row per distinct status present in the
// input. Rows come out in first-seen order; callers impose any display
// order they want.
func CountByStatus(leads []models.Lead) []models.StatusCount {
	counts := map[string]int{}
	var order []string
	for _, l := range leads {
		if _, ok := counts[l.Status]; !ok {
			order = append(order, l.Status)
		}
		counts[l.Status]++
	}
	out := make([]models.StatusCount, 0, len(order))
	for _, st := range order {
		out = append(out, models.StatusCount{Status: st, Count: counts[st]})
	}
	return out
}

// CountBySource is the same shape over the normalized source; no
// distinct value present in the input is ever dropped, "Other"
// included.
func CountBySource(leads []models.Lead) []models.SourceCount {
	counts := map[string]int{}
	var order []string
	for _, l := range leads {
		if _, ok := counts[l.Source]; !ok {
			order = append(order, l.Source)
		}
		counts[l.Source]++
	}
	out := make([]models.SourceCount, 0, len(order))
	for _, src := range order {
		out = append(out, models.SourceCount{Source: src, Count: counts[src]})
	}
	return out
}

// CountMonthly agrupa por (mes calendario, status) y le cuelga a cada
// fila el total de su mes. Meses sin registros no emiten filas.
func CountMonthly(leads []models.Lead) []models.MonthlyCount {
	type key struct {
		month  time.Month
		status string
	}
	counts := map[key]int{}
	totals := map[time.Month]int{}
	var order []key
	for _, l := range leads {
		k := key{month: l.CreatedAt.Month(), status: l.Status}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
		totals[k.month]++
	}
	out := make([]models.MonthlyCount, 0, len(order))
	for _, k := range order {
		out = append(out, models.MonthlyCount{
			Month:      k.month.String(),
			MonthNum:   int(k.month),
			Status:     k.status,
			Count:      counts[k],
			MonthTotal: totals[k.month],
		})
	}
	return out
}
