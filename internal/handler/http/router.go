package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/user"
	"github.com/sentra-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	reimbursementHandler ReimbursementHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The stream endpoint authenticates through a short-lived query
		// token instead of the Authorization header
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)

				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", attendanceHandler.SubmitRequest)
					r.Get("/", attendanceHandler.ListRequests)
					r.Post("/{id}/cancel", attendanceHandler.CancelRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireCapability(user.CapabilityAttendanceChange))
						r.Post("/{id}/approve", attendanceHandler.ApproveRequest)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityAttendanceChange))
					r.Post("/{id}/validate", attendanceHandler.Validate)
					r.Post("/{id}/approve-overtime", attendanceHandler.ApproveOvertime)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityAttendanceDelete))
					r.Delete("/{id}", attendanceHandler.Delete)
				})
			})

			r.Get("/overtime-accounts", attendanceHandler.ListOvertimeAccounts)

			r.Route("/late-early-records", func(r chi.Router) {
				r.Get("/", attendanceHandler.ListLateEarly)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityAttendanceChange))
					r.Delete("/{id}", attendanceHandler.DeleteLateEarly)
				})
			})

			r.Route("/reimbursements", func(r chi.Router) {
				r.Post("/", reimbursementHandler.Create)
				r.Get("/", reimbursementHandler.List)
				r.Get("/{id}", reimbursementHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityReimbursementApprove))
					r.Post("/{id}/approve", reimbursementHandler.Approve)
					r.Post("/{id}/reject", reimbursementHandler.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkAsRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Get("/stream-token", notificationHandler.GetStreamToken)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
