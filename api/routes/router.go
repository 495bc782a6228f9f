package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lasgemelas/disfraces-backend/api/controllers"
	"github.com/lasgemelas/disfraces-backend/api/middleware"
	"github.com/lasgemelas/disfraces-backend/internal/auth"
	"github.com/lasgemelas/disfraces-backend/internal/checkout"
	"github.com/lasgemelas/disfraces-backend/internal/orders"
	"github.com/lasgemelas/disfraces-backend/internal/products"
	"github.com/lasgemelas/disfraces-backend/internal/tech"
	"github.com/lasgemelas/disfraces-backend/pkg/auth/session"
	"github.com/lasgemelas/disfraces-backend/pkg/config"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	"github.com/lasgemelas/disfraces-backend/pkg/logger"
	"github.com/lasgemelas/disfraces-backend/pkg/metrics"
	"github.com/lasgemelas/disfraces-backend/pkg/redis"
)

// Deps collects everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth     auth.Service
	Products products.Service
	Checkout checkout.Service
	Orders   orders.Service
	Tech     tech.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/test-db", controllers.TestDB(deps.DB, logg))

		r.Get("/productos", controllers.ProductsList(deps.Products, logg))
		r.Get("/productos/{id}", controllers.ProductGet(deps.Products, logg))

		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/registro", controllers.Register(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/logout", controllers.Logout(deps.Auth, logg))
			r.Get("/perfil", controllers.Perfil(deps.Auth, logg))
			r.Get("/mis-compras", controllers.MisCompras(deps.Orders, logg))
			r.Get("/mis-alquileres", controllers.MisAlquileres(deps.Orders, logg))

			r.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/procesar-carrito", controllers.ProcesarCarrito(deps.Checkout, deps.HTTPMetrics, logg))

			r.Route("/admin/productos", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/", controllers.AdminProductCreate(deps.Products, logg))
				r.Put("/{id}", controllers.AdminProductUpdate(deps.Products, logg))
				r.Delete("/{id}", controllers.AdminProductDelete(deps.Products, logg))
			})
		})

		r.Route("/tech", func(r chi.Router) {
			r.Use(middleware.TechCode(cfg.Tech, logg))
			r.Get("/stats", controllers.TechStats(deps.Tech, logg))
			r.Route("/usuarios", func(r chi.Router) {
				r.Get("/", controllers.TechUsersList(deps.Tech, logg))
				r.Post("/", controllers.TechUserCreate(deps.Tech, logg))
				r.Get("/{id}", controllers.TechUserGet(deps.Tech, logg))
				r.Put("/{id}", controllers.TechUserUpdate(deps.Tech, logg))
				r.Delete("/{id}", controllers.TechUserDelete(deps.Tech, logg))
			})
		})
	})

	return r
}
