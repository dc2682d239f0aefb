package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vaultden/vaultden/internal/logger"
	"github.com/vaultden/vaultden/pkg/api/auth"
	"github.com/vaultden/vaultden/pkg/api/handlers"
	apiMiddleware "github.com/vaultden/vaultden/pkg/api/middleware"
	"github.com/vaultden/vaultden/pkg/vault/acl"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - POST /api/v1/access/vaults/{id} - Vault access check
//   - POST /api/v1/access/folders/{id} - Folder access check
//   - POST /api/v1/access/items/{id} - Item access check
//   - GET /api/v1/access/principals - Resolved principal set for the caller
//   - /api/v1/vaults/* - Vault management (admin only)
//   - /api/v1/folders/* - Folder management (admin only)
//   - /api/v1/items/* - Item metadata management (admin only)
//   - /api/v1/acl/* - Grant management (admin only)
//   - /api/v1/groups/* - Static group management (admin only)
func NewRouter(st store.Store, gate *acl.Gate, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(st)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	accessHandler := handlers.NewAccessHandler(gate)
	vaultHandler := handlers.NewVaultHandler(st)
	folderHandler := handlers.NewFolderHandler(st)
	itemHandler := handlers.NewItemHandler(st)
	aclHandler := handlers.NewACLHandler(st)
	groupHandler := handlers.NewGroupHandler(st)

	// API v1 routes - all authenticated
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiMiddleware.JWTAuth(jwtService))

		// Access decisions - any authenticated user; the gate itself
		// decides based on the caller's identity.
		r.Route("/access", func(r chi.Router) {
			r.Post("/vaults/{id}", accessHandler.CheckVault)
			r.Post("/folders/{id}", accessHandler.CheckFolder)
			r.Post("/items/{id}", accessHandler.CheckItem)
			r.Get("/principals", accessHandler.Principals)
		})

		// Management routes - admin only
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireAdmin())

			r.Route("/vaults", func(r chi.Router) {
				r.Post("/", vaultHandler.Create)
				r.Get("/", vaultHandler.List)
				r.Get("/{id}", vaultHandler.Get)
				r.Put("/{id}", vaultHandler.Update)
				r.Delete("/{id}", vaultHandler.Delete)
			})

			r.Route("/folders", func(r chi.Router) {
				r.Post("/", folderHandler.Create)
				r.Get("/", folderHandler.List)
				r.Get("/{id}", folderHandler.Get)
				r.Get("/{id}/descendants", folderHandler.Descendants)
				r.Put("/{id}", folderHandler.Update)
				r.Delete("/{id}", folderHandler.Delete)
			})

			r.Route("/items", func(r chi.Router) {
				r.Post("/", itemHandler.Create)
				r.Get("/", itemHandler.List)
				r.Get("/{id}", itemHandler.Get)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
			})

			r.Route("/acl", func(r chi.Router) {
				r.Post("/", aclHandler.Create)
				r.Get("/", aclHandler.List)
				r.Delete("/{id}", aclHandler.Delete)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", groupHandler.Create)
				r.Get("/", groupHandler.List)
				r.Get("/{id}", groupHandler.Get)
				r.Delete("/{id}", groupHandler.Delete)
				r.Post("/{id}/members", groupHandler.AddMember)
				r.Delete("/{id}/members/{key}", groupHandler.RemoveMember)
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs requests using the internal logger.
//
// Request start is logged at DEBUG; completion at INFO, except healthcheck
// requests which stay at DEBUG to reduce noise.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}
