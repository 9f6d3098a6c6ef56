package dashboard

import (
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/crmdash/leadboard/internal/metrics"
	"github.com/crmdash/leadboard/internal/models"
	"github.com/crmdash/leadboard/internal/store"
)

// Service recomputa las vistas derivadas desde el snapshot en cada
// petición; no cachea nada entre llamadas.
type Service struct {
	st *store.LeadStore
	mx *metrics.Metrics
}

func NewService(st *store.LeadStore, mx *metrics.Metrics) *Service {
	return &Service{st: st, mx: mx}
}

// Page es la vista paginada que sale hacia la presentación.
type Page struct {
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Records    []models.Lead `json:"records"`
}

func (s *Service) filtered(v url.Values) []models.Lead {
	start := time.Now()
	out := Filter(s.st.Leads(), ParseSelection(v))
	if s.mx != nil {
		s.mx.RecomputeSeconds.Observe(time.Since(start).Seconds())
	}
	return out
}

// Records applies the current selection and paginates the result.
// An out-of-range page surfaces ErrPageOutOfRange untouched.
func (s *Service) Records(v url.Values) (Page, error) {
	page := atoiDef(v.Get("page"), 1)
	leads := s.filtered(v)
	rows, tp, err := Paginate(leads, PageSize, page)
	if err != nil {
		return Page{}, err
	}
	return Page{Total: len(leads), Page: page, TotalPages: tp, Records: rows}, nil
}

func (s *Service) StatusSummary(v url.Values) []models.StatusCount {
	rows := CountByStatus(s.filtered(v))
	// orden determinista
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows
}

// SourceSummary orders rows by the fixed preferred source sequence.
func (s *Service) SourceSummary(v url.Values) []models.SourceCount {
	rows := CountBySource(s.filtered(v))
	sort.Slice(rows, func(i, j int) bool { return sourceRank(rows[i].Source) < sourceRank(rows[j].Source) })
	return rows
}

// MonthlySummary orders rows January→December, then by status.
func (s *Service) MonthlySummary(v url.Values) []models.MonthlyCount {
	rows := CountMonthly(s.filtered(v))
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MonthNum != rows[j].MonthNum {
			return rows[i].MonthNum < rows[j].MonthNum
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}

func sourceRank(src string) int {
	for i, v := range models.SourceOrder {
		if v == src {
			return i
		}
	}
	return len(models.SourceOrder)
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
