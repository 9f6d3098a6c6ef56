package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/crmdash/leadboard/internal/models"
)

// Wildcard deja una dimensión sin restringir; un parámetro vacío vale
// lo mismo.
const Wildcard = "All"

// Selection son los filtros elegidos por el usuario. Se reconstruye en
// cada petición a partir de los query params, nunca se persiste.
type Selection struct {
	Year     string
	Owner    string
	Source   string
	Statuses []string
}

func (s Selection) yearAll() bool   { return s.Year == "" || s.Year == Wildcard }
func (s Selection) ownerAll() bool  { return s.Owner == "" || s.Owner == Wildcard }
func (s Selection) sourceAll() bool { return s.Source == "" || s.Source == Wildcard }

// statusAll: sin estados elegidos, o "All" entre ellos, significa
// "cualquier estado" — nunca el string literal.
func (s Selection) statusAll() bool {
	if len(s.Statuses) == 0 {
		return true
	}
	for _, st := range s.Statuses {
		if st == Wildcard {
			return true
		}
	}
	return false
}

// ParseSelection builds a Selection from query parameters; status
// accepts a comma-separated list.
func ParseSelection(v url.Values) Selection {
	sel := Selection{
		Year:   strings.TrimSpace(v.Get("year")),
		Owner:  strings.TrimSpace(v.Get("owner")),
		Source: strings.TrimSpace(v.Get("source")),
	}
	for _, p := range strings.Split(v.Get("status"), ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			sel.Statuses = append(sel.Statuses, p)
		}
	}
	return sel
}

// Filter devuelve los leads que cumplen las cuatro dimensiones (AND),
// preservando el orden de entrada. No muta la entrada; sin coincidencias
// devuelve vacío, no error. Un lead sin OwnerName nunca coincide con un
// filtro de owner concreto.
func Filter(leads []models.Lead, sel Selection) []models.Lead {
	year := 0
	if !sel.yearAll() {
		y, err := strconv.Atoi(sel.Year)
		if err != nil {
			return []models.Lead{}
		}
		year = y
	}
	statusSet := make(map[string]struct{}, len(sel.Statuses))
	if !sel.statusAll() {
		for _, st := range sel.Statuses {
			statusSet[st] = struct{}{}
		}
	}

	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if !sel.yearAll() && l.CreatedAt.Year() != year {
			continue
		}
		if !sel.ownerAll() && l.OwnerName != sel.Owner {
			continue
		}
		if !sel.sourceAll() && l.Source != sel.Source {
			continue
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[l.Status]; !ok {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}
