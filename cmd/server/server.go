package main

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/roster/internal/config"
	"github.com/mmynk/roster/internal/middleware"
	"github.com/mmynk/roster/internal/service"
)

func newServer(cfg config.Config, svc *service.PlayerService, reg *prometheus.Registry, clock clockwork.Clock) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, svc, reg, clock),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// newHandler assembles routes and middleware:
// request id -> logging -> metrics -> CORS -> mux, all behind h2c.
func newHandler(cfg config.Config, svc *service.PlayerService, reg *prometheus.Registry, clock clockwork.Clock) http.Handler {
	mux := http.NewServeMux()
	svc.Register(mux)

	reg.MustRegister(svc.PlayersCollector())
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	metrics := middleware.NewMetrics(reg, clock)
	handler := middleware.RequestID(
		middleware.Logging(clock)(
			metrics.Middleware(c.Handler(mux)),
		),
	)

	// h2c serves HTTP/2 without TLS alongside HTTP/1.1.
	return h2c.NewHandler(handler, &http2.Server{})
}
