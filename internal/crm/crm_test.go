package crm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crmdash/leadboard/internal/metrics"
	"github.com/crmdash/leadboard/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

// fakeCRM sirve el endpoint de token y la query de leads.
func fakeCRM(t *testing.T, queryPages []string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	page := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
			http.Error(w, `{"error":"invalid_grant","error_description":"authentication failure"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","instance_url":"` + srv.URL + `"}`))
	})
	mux.HandleFunc("/services/data/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(queryPages[page]))
		if page < len(queryPages)-1 {
			page++
		}
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testLoader(srv *httptest.Server, st *store.LeadStore) *Loader {
	cl := NewHTTPClient(2 * time.Second)
	return NewLoader(cl, st, testLogger(), metrics.New(), Credentials{
		TokenURL: srv.URL + "/token",
		ClientID: "id", ClientSecret: "secret",
		Username: "user@example.com", Password: "pw", SecurityToken: "tok",
	})
}

func TestLoginSuccess(t *testing.T) {
	srv := fakeCRM(t, []string{`{"totalSize":0,"done":true,"records":[]}`})
	cl := NewHTTPClient(2 * time.Second)
	sess, err := Login(context.Background(), cl, Credentials{
		TokenURL: srv.URL + "/token",
		Username: "user@example.com", Password: "pw", SecurityToken: "tok",
	})
	if err != nil {
		t.Fatal(err)
	}
	if sess.AccessToken != "tok-123" || sess.InstanceURL != srv.URL {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant","error_description":"authentication failure"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	cl := NewHTTPClient(2 * time.Second)
	_, err := Login(context.Background(), cl, Credentials{TokenURL: srv.URL})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if !strings.Contains(err.Error(), "authentication failure") {
		t.Errorf("server detail missing from %q", err)
	}
}

func TestRefreshLoadsAndRejects(t *testing.T) {
	// dos registros buenos (uno con Owner anidado y attributes), uno sin
	// CreatedDate y uno con fecha rota: esos dos se descartan
	body := `{"totalSize":4,"done":true,"records":[
		{"attributes":{"type":"Lead","url":"/x"},"Id":"L1","Status":"Open","CreatedDate":"2024-01-15T10:30:00.000+0000","OwnerId":"O1","Owner":{"Name":" Ana Ruiz "},"LeadSource":"LinkedIn","Name":"N1","Email":"A@B.COM","MobilePhone":"555","Product__c":"P","Company":"C"},
		{"Id":"L2","Status":"Closed","CreatedDate":"2024-02-01T08:00:00Z","LeadSource":"Indeed"},
		{"Id":"L3","Status":"Open","LeadSource":"Website"},
		{"Id":"L4","Status":"Open","CreatedDate":"not-a-date","LeadSource":"Website"}
	]}`
	srv := fakeCRM(t, []string{body})
	st := store.NewLeadStore()

	n, err := testLoader(srv, st).Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || st.Len() != 2 {
		t.Fatalf("loaded %d (store %d), want 2", n, st.Len())
	}

	leads := st.Leads()
	l1 := leads[0]
	if l1.ID != "L1" || l1.OwnerName != "Ana Ruiz" {
		t.Errorf("Owner.Name not flattened: %+v", l1)
	}
	if l1.Source != "Other" {
		t.Errorf("LinkedIn must normalize to Other, got %q", l1.Source)
	}
	if l1.Email != "a@b.com" {
		t.Errorf("email not lowered: %q", l1.Email)
	}
	if !l1.CreatedAt.Equal(time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("created date parsed wrong: %v", l1.CreatedAt)
	}
	if leads[1].Source != "Indeed" {
		t.Errorf("Indeed must survive normalization, got %q", leads[1].Source)
	}
}

func TestRefreshFollowsNextRecords(t *testing.T) {
	pages := []string{
		`{"totalSize":2,"done":false,"nextRecordsUrl":"/services/data/v59.0/query/next-1","records":[{"Id":"L1","Status":"Open","CreatedDate":"2024-01-01T00:00:00Z","LeadSource":"Website"}]}`,
		`{"totalSize":2,"done":true,"records":[{"Id":"L2","Status":"Open","CreatedDate":"2024-01-02T00:00:00Z","LeadSource":"Website"}]}`,
	}
	srv := fakeCRM(t, pages)
	st := store.NewLeadStore()

	n, err := testLoader(srv, st).Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("loaded %d, want both pages", n)
	}
}

func TestRefreshEmptyDataset(t *testing.T) {
	srv := fakeCRM(t, []string{`{"totalSize":0,"done":true,"records":[]}`})
	st := store.NewLeadStore()

	n, err := testLoader(srv, st).Refresh(context.Background())
	if err != nil {
		t.Fatalf("zero records is a valid result: %v", err)
	}
	if n != 0 || !st.Loaded() {
		t.Errorf("n=%d loaded=%v", n, st.Loaded())
	}
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	cl := NewHTTPClient(100 * time.Millisecond)
	_, err := Login(context.Background(), cl, Credentials{TokenURL: srv.URL})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestParseCreatedFormats(t *testing.T) {
	cases := []string{
		"2024-01-15T10:30:00.000+0000",
		"2024-01-15T10:30:00+0000",
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00+02:00",
	}
	for _, c := range cases {
		if _, err := parseCreated(c); err != nil {
			t.Errorf("parseCreated(%q): %v", c, err)
		}
	}
	if _, err := parseCreated(""); err == nil {
		t.Error("empty created date must fail")
	}
}
