package utils

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the base router with CORS applied and a /health route.
func NewRouter(policy OriginPolicy) *mux.Router {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(CORSMiddleware(policy)))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}
