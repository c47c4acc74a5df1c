package http

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/middleware"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Logger             *slog.Logger
	AllowedOrigins     []string
	RateLimitPerMinute int
}

type Handlers struct {
	Report     ReportHandler
	Dashboard  DashboardHandler
	Attendance AttendanceHandler
	User       UserHandler
	Department DepartmentHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			cfg.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				response.TooManyRequests(w, "Rate limit exceeded")
			}),
		))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/weekly", h.Report.GetWeeklyReport)
				r.Get("/monthly", h.Report.GetMonthlyReport)
			})

			r.Get("/dashboard/today", h.Dashboard.GetTodayStats)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/summaries", h.Attendance.ListSummaries)
				r.Get("/rules", h.Attendance.GetRules)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/rules", h.Attendance.UpdateRules)
					r.Post("/process", h.Attendance.Process)
				})
			})

			r.With(middleware.AdminOnly).Post("/punches", h.Attendance.IngestPunches)

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Attendance.ListHolidays)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Attendance.CreateHoliday)
					r.Delete("/{date}", h.Attendance.DeleteHoliday)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.ListUsers)
				r.Get("/{id}", h.User.GetUser)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.User.CreateUser)
					r.Put("/{id}", h.User.UpdateUser)
					r.Post("/{id}/deactivate", h.User.DeactivateUser)
					r.Post("/{id}/reactivate", h.User.ReactivateUser)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.ListDepartments)
				r.Get("/{id}", h.Department.GetDepartment)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Department.CreateDepartment)
					r.Put("/{id}", h.Department.UpdateDepartment)
					r.Delete("/{id}", h.Department.DeleteDepartment)
				})
			})
		})
	})
	return r
}

// NewRequestLogger builds the ECS-formatted JSON logger used for request logs.
func NewRequestLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "horus"),
		slog.String("env", env),
	)
}
