package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dittonas/internal/controlplane/api/auth"
	"github.com/marmos91/dittonas/internal/controlplane/api/handlers"
	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	apiMiddleware "github.com/marmos91/dittonas/internal/controlplane/api/middleware"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
	"github.com/marmos91/dittonas/pkg/metrics"
)

// PasswordChangePath stays reachable for users flagged with
// must_change_password.
const PasswordChangePath = "/api/v1/auth/password"

// RequestTimeout bounds every API request.
const RequestTimeout = 30 * time.Second

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Routes:
//   - GET /health - Liveness
//   - GET /health/ready - Readiness (database ping)
//   - POST /api/v1/auth/login - User authentication
//   - POST /api/v1/auth/refresh - Token refresh
//   - GET /api/v1/auth/me - Current user info
//   - POST /api/v1/auth/password - Change own password
//   - GET /api/v1/storage/{volumes,disks,scrubs,tasks} - Storage listings
//   - GET /api/v1/storage/volumes/{id} - One volume with its dataset tree
//   - GET /api/v1/sharing/nfs - NFS shares
//   - GET /api/v1/network/{interfaces,lagg,lagg-members} - Network listings
//   - GET /api/v1/system/{cronjobs,rsyncs,smarttests} - Scheduled jobs
//   - GET /api/v1/system/inventory - Last inventory import
//
// Every /api/v1 listing requires the admin or operator role. A nil
// apiMetrics or treeMetrics disables the corresponding instrumentation.
func NewRouter(config APIConfig, jwtService *auth.JWTService, cpStore store.Store, apiMetrics metrics.APIMetrics, treeMetrics metrics.TreeMetrics) http.Handler {
	config.ApplyDefaults()

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.LogContext)
	r.Use(apiMiddleware.Tracing)
	r.Use(apiMiddleware.Metrics(apiMetrics))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	healthHandler := handlers.NewHealthHandler(cpStore)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	lr := links.New(config.UIBaseURL)
	authHandler := handlers.NewAuthHandler(cpStore, jwtService)
	storageHandler := handlers.NewStorageHandler(cpStore, lr, config.Tree.IDStride, treeMetrics)
	sharingHandler := handlers.NewSharingHandler(cpStore, lr)
	networkHandler := handlers.NewNetworkHandler(cpStore, lr)
	systemHandler := handlers.NewSystemHandler(cpStore, lr)
	inventoryHandler := handlers.NewInventoryHandler(cpStore)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.JWTAuth(jwtService))
				r.Get("/me", authHandler.Me)
				r.Post("/password", authHandler.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.JWTAuth(jwtService))
			r.Use(apiMiddleware.RequirePasswordChange(PasswordChangePath))
			r.Use(apiMiddleware.RequireRole(string(models.RoleAdmin), string(models.RoleOperator)))

			r.Route("/storage", func(r chi.Router) {
				r.Get("/volumes", storageHandler.ListVolumes)
				r.Get("/volumes/{id}", storageHandler.GetVolume)
				r.Get("/disks", storageHandler.ListDisks)
				r.Get("/scrubs", storageHandler.ListScrubs)
				r.Get("/tasks", storageHandler.ListTasks)
			})

			r.Get("/sharing/nfs", sharingHandler.ListNFSShares)

			r.Route("/network", func(r chi.Router) {
				r.Get("/interfaces", networkHandler.ListInterfaces)
				r.Get("/lagg", networkHandler.ListLAGGs)
				r.Get("/lagg-members", networkHandler.ListLAGGMembers)
			})

			r.Route("/system", func(r chi.Router) {
				r.Get("/cronjobs", systemHandler.ListCronJobs)
				r.Get("/rsyncs", systemHandler.ListRsyncTasks)
				r.Get("/smarttests", systemHandler.ListSMARTTests)
				r.Get("/inventory", inventoryHandler.Status)
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs each completed request with the request-scoped fields
// of the LogContext. Healthcheck requests are logged at DEBUG.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		logger.DebugCtx(ctx, "API request started",
			"method", r.Method,
			"path", r.URL.Path,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(logger.Duration(start)),
		}

		if isHealthPath(r.URL.Path) {
			logger.DebugCtx(ctx, "API request completed", logArgs...)
		} else {
			logger.InfoCtx(ctx, "API request completed", logArgs...)
		}
	})
}
