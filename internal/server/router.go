// Package server assembles storage, services and HTTP handlers into one
// http.Handler.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/api"
	"github.com/rpattn/portaldata/internal/exposure"
	"github.com/rpattn/portaldata/internal/genes"
	"github.com/rpattn/portaldata/internal/middleware"
	"github.com/rpattn/portaldata/internal/proteinarray"
	"github.com/rpattn/portaldata/internal/resolver"
	"github.com/rpattn/portaldata/internal/samples"
	"github.com/rpattn/portaldata/internal/segments"
	"github.com/rpattn/portaldata/internal/studies"
)

// Options configures NewHandler.
type Options struct {
	Limits      api.Limits
	Fields      exposure.Fields
	CORSOrigins []string
	// Registry receives the HTTP collectors. Nil disables /metrics.
	Registry *prometheus.Registry
}

// Services are the domain services behind the HTTP surface.
type Services struct {
	Studies       *studies.Service
	Genes         *genes.Service
	Samples       *samples.Service
	Segments      *segments.Service
	ProteinArrays *proteinarray.Service
}

// NewServices wires every service to repos.
func NewServices(repos *Repositories, logger *zap.Logger) *Services {
	sampleService := samples.NewService(repos.Studies, repos.Samples, logger)
	return &Services{
		Studies:  studies.NewService(repos.Studies, logger),
		Genes:    genes.NewService(repos.Genes, logger),
		Samples:  sampleService,
		Segments: segments.NewService(sampleService, repos.Segments, logger),
		ProteinArrays: proteinarray.NewService(
			repos.Studies,
			repos.ProteinArrays,
			resolver.NewGeneResolver(repos.Genes, logger),
			logger,
		),
	}
}

// NewHandler builds the routed, instrumented handler.
func NewHandler(svc *Services, opts Options, logger *zap.Logger) (http.Handler, error) {
	mux := http.NewServeMux()
	studies.NewHTTPHandler(svc.Studies, opts.Fields, opts.Limits, logger).Routes(mux)
	genes.NewHTTPHandler(svc.Genes, opts.Fields, opts.Limits, logger).Routes(mux)
	samples.NewHTTPHandler(svc.Samples, opts.Fields, opts.Limits, logger).Routes(mux)
	segments.NewHTTPHandler(svc.Segments, opts.Fields, opts.Limits, logger).Routes(mux)
	proteinarray.NewHTTPHandler(svc.ProteinArrays, logger).Routes(mux)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var routed http.Handler = mux
	if opts.Registry != nil {
		metrics, err := middleware.NewMetrics(opts.Registry)
		if err != nil {
			return nil, err
		}
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
		routed = metrics.Middleware(mux)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{api.TotalCountHeader, proteinarray.UnresolvedGenesHeader, middleware.RequestIDHeader},
	})

	return corsHandler.Handler(
		middleware.RequestID(
			middleware.LoggingMiddleware(logger)(
				middleware.Tracing(routed),
			),
		),
	), nil
}
