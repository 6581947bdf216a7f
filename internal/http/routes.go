package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
	"github.com/sarpras/portal/internal/observability/metrics"
	"github.com/sarpras/portal/internal/ports"
	"github.com/sarpras/portal/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth     *service.AuthService
	Bookings ports.BookingReader
	Catalog  ports.ServiceCatalog

	Metrics  metrics.AuthMetrics
	Registry *prometheus.Registry

	CookieDomain   string
	TokenLifetime  time.Duration
	StickyLifetime time.Duration
	Logger         *slog.Logger
}

// NewRouter creates and configures the portal router. The area gate
// wraps the whole mux so every /user/ and /admin/ route is filtered
// before dispatch; individual endpoints add guard checks for their
// role requirements.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	authMetrics := services.Metrics
	if authMetrics == nil {
		authMetrics = metrics.Noop{}
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:            services.Auth,
		Metrics:        authMetrics,
		Logger:         logger,
		CookieDomain:   services.CookieDomain,
		TokenLifetime:  services.TokenLifetime,
		StickyLifetime: services.StickyLifetime,
	}
	mux.Handle("GET "+UserLoginPath, LoginPage(domainauth.ScopeUser))
	mux.Handle("GET "+AdminLoginPath, LoginPage(domainauth.ScopeAdmin))
	mux.HandleFunc("POST /Login/auth", authHandlers.UserLogin)
	mux.HandleFunc("POST /Signin/auth", authHandlers.AdminLogin)
	mux.HandleFunc("POST /user/logout", authHandlers.UserLogout)
	mux.HandleFunc("POST /admin/logout", authHandlers.AdminLogout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)

	guard := Guard{Resolver: services.Auth}
	bookingHandlers := &BookingHandlers{Bookings: services.Bookings, Catalog: services.Catalog}
	mux.Handle("GET /user/api/bookings",
		RequireRoles(guard, domainauth.ScopeUser, domainauth.RoleUser)(
			http.HandlerFunc(bookingHandlers.ListMine)))
	mux.Handle("GET /admin/api/services",
		RequireRoles(guard, domainauth.ScopeAdmin, domainauth.RoleAdminFitur)(
			http.HandlerFunc(bookingHandlers.ListServices)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(services.Registry, promhttp.HandlerOpts{}))
	}

	gate := AreaGate(AreaGateOptions{
		Resolver:     services.Auth,
		Metrics:      authMetrics,
		Logger:       logger,
		CookieDomain: services.CookieDomain,
	})
	return gate(mux)
}
