// Package frontend exposes the HTTP API over the primary store. Handlers
// mutate the store (which ledgers every mutation) and return immediately;
// nothing on the request path waits for the secondary store. After every
// request, mutating or not, the full store state is snapshotted to disk.
package frontend

import (
	"encoding/json"
	"net/http"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/shopmirror/shopstore/metrics"
	"github.com/shopmirror/shopstore/store"
	"github.com/shopmirror/shopstore/utils/log"
)

type Service struct {
	store   *store.Store
	rootDir string
}

func NewService(st *store.Store, rootDir string) *Service {
	return &Service{store: st, rootDir: rootDir}
}

// Handler builds the API routes, each wrapped in the save-after-request
// hook.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", s.handleProducts)
	mux.HandleFunc("/products/", s.handleProductByID)
	mux.HandleFunc("/orders", s.handleOrders)
	mux.HandleFunc("/orders/", s.handleOrdersByUser)
	mux.HandleFunc("/cart/", s.handleCart)
	return s.saveAfter(mux)
}

// saveAfter snapshots the store after the response-producing logic has
// run. The write is unconditional: reads save too, matching the durable
// snapshot contract.
func (s *Service) saveAfter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		metrics.HTTPRequestDuration.Observe(time.Since(start).Seconds())

		n, err := s.store.Save(s.rootDir)
		if err != nil {
			log.Error("failed to save snapshot after %s %s: %v", r.Method, r.URL.Path, err)
			return
		}
		metrics.SnapshotBytes.Set(float64(n))
		log.Debug("snapshot saved: %s", bytefmt.ByteSize(uint64(n)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response - Error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
