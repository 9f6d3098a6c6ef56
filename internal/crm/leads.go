package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmdash/leadboard/internal/metrics"
	"github.com/crmdash/leadboard/internal/models"
	"github.com/crmdash/leadboard/internal/store"
)

// soqlLeads es la única query que corre este dashboard.
const soqlLeads = "SELECT Id, Status, CreatedDate, OwnerId, Owner.Name, LeadSource, Name, Email, MobilePhone, Product__c, Company FROM Lead"

const apiVersion = "v59.0"

type Loader struct {
	c     HTTPClient
	st    *store.LeadStore
	log   *slog.Logger
	mx    *metrics.Metrics
	creds Credentials
}

func NewLoader(c HTTPClient, st *store.LeadStore, log *slog.Logger, mx *metrics.Metrics, creds Credentials) *Loader {
	return &Loader{c: c, st: st, log: log, mx: mx, creds: creds}
}

type queryResp struct {
	TotalSize      int       `json:"totalSize"`
	Done           bool      `json:"done"`
	NextRecordsURL string    `json:"nextRecordsUrl"`
	Records        []rawLead `json:"records"`
}

type rawLead struct {
	// metadata del CRM, se descarta
	Attributes json.RawMessage `json:"attributes"`

	ID          string `json:"Id"`
	Status      string `json:"Status"`
	CreatedDate string `json:"CreatedDate"`
	OwnerID     string `json:"OwnerId"`
	Owner       *struct {
		Name string `json:"Name"`
	} `json:"Owner"`
	LeadSource  string `json:"LeadSource"`
	Name        string `json:"Name"`
	Email       string `json:"Email"`
	MobilePhone string `json:"MobilePhone"`
	Product     string `json:"Product__c"`
	Company     string `json:"Company"`
}

// Refresh autentica, corre la query de leads y reemplaza el snapshot.
// Cero leads es un resultado válido, no un error.
func (l *Loader) Refresh(ctx context.Context) (int, error) {
	sess, err := Login(ctx, l.c, l.creds)
	if err != nil {
		return 0, err
	}
	raw, err := l.fetchAll(ctx, sess)
	if err != nil {
		l.mx.FetchErrors.Inc()
		return 0, fmt.Errorf("fetch leads: %w", err)
	}

	leads := make([]models.Lead, 0, len(raw))
	rejected := 0
	for _, r := range raw {
		lead, ok := toLead(r)
		if !ok {
			rejected++
			continue
		}
		leads = append(leads, lead)
	}
	if rejected > 0 {
		l.mx.RecordsRejected.Add(float64(rejected))
		l.log.Warn("rejected malformed records", slog.Int("count", rejected))
	}

	l.st.Load(leads)
	l.mx.LeadsLoaded.Set(float64(len(leads)))
	l.log.Info("leads loaded", slog.Int("count", len(leads)))
	return len(leads), nil
}

// fetchAll sigue nextRecordsUrl hasta done, como query_all.
func (l *Loader) fetchAll(ctx context.Context, sess Session) ([]rawLead, error) {
	u := sess.InstanceURL + "/services/data/" + apiVersion + "/query?q=" + url.QueryEscape(soqlLeads)
	var out []rawLead
	for {
		var qr queryResp
		if err := getJSON(ctx, l.c, u, bearer(sess), &qr); err != nil {
			return nil, err
		}
		out = append(out, qr.Records...)
		if qr.Done || qr.NextRecordsURL == "" {
			break
		}
		u = sess.InstanceURL + qr.NextRecordsURL
	}
	return out, nil
}

func bearer(sess Session) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+sess.AccessToken)
	return h
}

// toLead aplana Owner.Name, parsea CreatedDate y normaliza LeadSource.
// Un registro sin fecha parseable se descarta en la carga para que el
// fallo nunca llegue a la agregación.
func toLead(r rawLead) (models.Lead, bool) {
	created, err := parseCreated(r.CreatedDate)
	if err != nil {
		return models.Lead{}, false
	}
	owner := ""
	if r.Owner != nil {
		owner = strings.TrimSpace(r.Owner.Name)
	}
	return models.Lead{
		ID:        strings.TrimSpace(r.ID),
		Status:    strings.TrimSpace(r.Status),
		CreatedAt: created,
		OwnerID:   strings.TrimSpace(r.OwnerID),
		OwnerName: owner,
		Source:    models.NormalizeSource(strings.TrimSpace(r.LeadSource)),
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:     strings.TrimSpace(r.MobilePhone),
		Product:   strings.TrimSpace(r.Product),
		Company:   strings.TrimSpace(r.Company),
	}, true
}

// El CRM emite offsets sin dos puntos ("+0000"), que RFC3339 no acepta.
var createdFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

func parseCreated(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing created date")
	}
	var lastErr error
	for _, f := range createdFormats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
