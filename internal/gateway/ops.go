package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type statusResponse struct {
	Username string       `json:"username"`
	UserID   string       `json:"userId"`
	ShopID   string       `json:"shopId"`
	ShopName string       `json:"shopName"`
	Queued   int          `json:"queued"`
	Stream   streamStatus `json:"stream"`
}

type streamStatus struct {
	Received   int64 `json:"received"`
	Classified int64 `json:"classified"`
	Skipped    int64 `json:"skipped"`
}

// startOpsServer exposes /healthz and /status on the loopback interface so
// a dashboard or a curl can watch the session without touching the console.
func (g *Gateway) startOpsServer() {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/status", g.handleStatus)

	g.opsSrv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", g.cfg.Gateway.Host, g.cfg.Gateway.Port),
		Handler: r,
	}

	go func() {
		log.Printf("[gateway] ops endpoint on %s", g.opsSrv.Addr)
		if err := g.opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[gateway] ops server error: %v", err)
		}
	}()
}

func (g *Gateway) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats := g.stream.Stats()
	resp := statusResponse{
		Username: g.acct.Username,
		UserID:   g.acct.UserID,
		ShopID:   g.acct.ShopID,
		Queued:   g.queue.Len(),
		Stream: streamStatus{
			Received:   stats.Received,
			Classified: stats.Classified,
			Skipped:    stats.Skipped,
		},
	}
	if shop, ok := g.store.GetShop(g.acct.ShopID); ok {
		resp.ShopName = shop.Name
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[gateway] encode status: %v", err)
	}
}
