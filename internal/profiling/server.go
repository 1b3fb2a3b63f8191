package profiling

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewHandler builds the ops sidecar router: pprof endpoints and a health
// probe, served on a separate port from the API.
func NewHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Mount("/debug", middleware.Profiler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// Serve starts the ops listener; it blocks until the listener fails.
func Serve(port string) error {
	return http.ListenAndServe(":"+port, NewHandler())
}
