package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crmdash/leadboard/internal/crm"
	"github.com/crmdash/leadboard/internal/dashboard"
	"github.com/crmdash/leadboard/internal/metrics"
	"github.com/crmdash/leadboard/internal/utils"
)

func NewRouter(log *slog.Logger, loader *crm.Loader, svc *dashboard.Service, mx *metrics.Metrics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(mx.Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", mx.Handler())

	mux.Post("/leads/refresh", func(w http.ResponseWriter, r *http.Request) {
		n, err := loader.Refresh(r.Context())
		if err != nil {
			if errors.Is(err, crm.ErrAuthFailed) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"loaded": n})
	})

	mux.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Records(r.URL.Query())
		if err != nil {
			if errors.Is(err, dashboard.ErrPageOutOfRange) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, page)
	})

	mux.Get("/leads/summary/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.StatusSummary(r.URL.Query()))
	})

	mux.Get("/leads/summary/source", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.SourceSummary(r.URL.Query()))
	})

	mux.Get("/leads/summary/monthly", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.MonthlySummary(r.URL.Query()))
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
