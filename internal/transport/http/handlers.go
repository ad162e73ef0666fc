package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/freightops/hq-access/internal/audit"
	"github.com/freightops/hq-access/internal/hq"
	"github.com/freightops/hq-access/internal/rbac"
	"github.com/freightops/hq-access/internal/session"
	"github.com/freightops/hq-access/internal/tenant"
	"github.com/freightops/hq-access/internal/token"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	hqService      *hq.Service
	sessionService *session.Service
	tokenService   *token.Service
	tenantService  *tenant.Service
	registry       *rbac.Registry
	auditLogger    audit.Logger
	auditStore     audit.Store
	validate       *validator.Validate
	sessionConfig  SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	Lifetime       time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	hqService *hq.Service,
	sessionService *session.Service,
	tokenService *token.Service,
	tenantService *tenant.Service,
	registry *rbac.Registry,
	auditLogger audit.Logger,
	auditStore audit.Store,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		hqService:      hqService,
		sessionService: sessionService,
		tokenService:   tokenService,
		tenantService:  tenantService,
		registry:       registry,
		auditLogger:    auditLogger,
		auditStore:     auditStore,
		validate:       validator.New(),
		sessionConfig:  sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated
		r.Post("/auth/login", h.Login)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(h.CSRFMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)
			r.Post("/auth/change-password", h.ChangePassword)
			r.Post("/auth/token", h.IssueToken)

			// Employee administration
			r.Route("/employees", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.PermUserView)).Get("/", h.ListEmployees)
				r.With(h.RequirePermission(rbac.PermUserView)).Get("/{employeeID}", h.GetEmployee)
				r.With(h.RequirePermission(rbac.PermUserManage)).Post("/", h.ProvisionEmployee)
				r.With(h.RequireRole(rbac.RolePlatformOwner, rbac.RoleHQAdmin)).
					Put("/{employeeID}/role", h.AssignRole)
				r.With(h.RequireSeniorRole(rbac.RoleHQAdmin)).
					Delete("/{employeeID}", h.DeactivateEmployee)
			})

			// Tenant directory
			r.Route("/tenants", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.PermTenantView)).Get("/", h.ListTenants)
				r.With(h.RequirePermission(rbac.PermTenantView)).Get("/{tenantID}", h.GetTenant)
				r.With(h.RequirePermission(rbac.PermTenantCreate)).Post("/", h.CreateTenant)
				r.With(h.RequirePermission(rbac.PermTenantEdit)).Put("/{tenantID}", h.UpdateTenant)

				// Suspension is restricted to the departments that own
				// the customer relationship, on top of the permission.
				r.Group(func(r chi.Router) {
					r.Use(h.RequirePermission(rbac.PermTenantSuspend))
					r.Use(h.RequireDepartment(
						rbac.DeptExecutive,
						rbac.DeptAdministration,
						rbac.DeptOperations,
						rbac.DeptCustomerSuccess,
					))
					r.Post("/{tenantID}/suspend", h.SuspendTenant)
					r.Post("/{tenantID}/activate", h.ActivateTenant)
				})
			})

			// Audit trail
			r.With(h.RequirePermission(rbac.PermAuditView)).Get("/audit/events", h.ListAuditEvents)
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "hq-access",
	})
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   int(h.sessionConfig.Lifetime.Seconds()),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
