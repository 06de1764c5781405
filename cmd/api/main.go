package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/sentra-hr/attendance-backend-go/internal/handler/http"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/email"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/sse"
	"github.com/sentra-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sentra-hr/attendance-backend-go/internal/service/attendance"
	notificationService "github.com/sentra-hr/attendance-backend-go/internal/service/notification"
	reimbursementService "github.com/sentra-hr/attendance-backend-go/internal/service/reimbursement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	overtimeRepo := postgresql.NewOvertimeAccountRepository(db)
	lateEarlyRepo := postgresql.NewLateEarlyRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db, cfg.Attendance.GraceSeconds)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reimbursementRepo := postgresql.NewReimbursementRepository(db)
	inTx := postgresql.NewTxRunner(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		fmt.Println("Error initializing email service:", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, emailService, notificationService.Config{})
	defer notificationSvc.Stop()

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		activityRepo,
		overtimeRepo,
		lateEarlyRepo,
		shiftRepo,
		employeeRepo,
		notificationSvc,
		inTx,
		cfg.Attendance.MinOvertimeSeconds,
	)
	reimbursementSvc := reimbursementService.NewReimbursementService(
		reimbursementRepo,
		employeeRepo,
		notificationSvc,
		inTx,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceRepo,
		activityRepo,
		shiftRepo,
		employeeRepo,
		notificationSvc,
		cfg.Attendance.StaleOpenHours,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reimbursementHandler := appHTTP.NewReimbursementHandler(reimbursementSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc, jwtService)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		reimbursementHandler,
		notificationHandler,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
