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

	"github.com/go-chi/httplog/v3"
	"github.com/nominacloud/erp-backend-go/internal/config"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	appHTTP "github.com/nominacloud/erp-backend-go/internal/handler/http"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
	"github.com/nominacloud/erp-backend-go/internal/pkg/jwt"
	"github.com/nominacloud/erp-backend-go/internal/repository/postgresql"
	ancillaryService "github.com/nominacloud/erp-backend-go/internal/service/ancillary"
	conceptService "github.com/nominacloud/erp-backend-go/internal/service/concept"
	overtimeService "github.com/nominacloud/erp-backend-go/internal/service/overtime"
	parameterService "github.com/nominacloud/erp-backend-go/internal/service/parameter"
	payrollService "github.com/nominacloud/erp-backend-go/internal/service/payroll"
	periodService "github.com/nominacloud/erp-backend-go/internal/service/period"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "erp-payroll"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	parameterRepo := postgresql.NewParameterRepository(db)
	conceptRepo := postgresql.NewConceptRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	ancillaryRepo := postgresql.NewAncillaryRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	paramResolver := parameter.NewResolver(parameterRepo)

	periodSvc := periodService.NewPeriodService(periodRepo, payrollRepo)
	conceptSvc := conceptService.NewConceptService(conceptRepo)
	parameterSvc := parameterService.NewParameterService(parameterRepo)
	overtimeSvc := overtimeService.NewOvertimeService(overtimeRepo, payrollRepo)
	ancillarySvc := ancillaryService.NewAncillaryService(ancillaryRepo, payrollRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		cfg.Payroll,
		logger,
		payrollRepo,
		periodRepo,
		employeeRepo,
		conceptRepo,
		overtimeRepo,
		ancillaryRepo,
		paramResolver,
	)

	router := appHTTP.NewRouter(
		logger,
		jwtService,
		appHTTP.NewPeriodHandler(periodSvc),
		appHTTP.NewConceptHandler(conceptSvc),
		appHTTP.NewParameterHandler(parameterSvc),
		appHTTP.NewOvertimeHandler(overtimeSvc),
		appHTTP.NewAncillaryHandler(ancillarySvc),
		appHTTP.NewPayrollHandler(payrollSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
