package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/neduet/campus-api/config"
	"github.com/neduet/campus-api/internal/adapters/scheduler"
	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/observability/statsd"
	"github.com/neduet/campus-api/internal/service"
)

// ServiceContainer holds all the application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Nav         *service.Navigator
	Users       *service.UserService
	Departments *service.DepartmentService
	Courses     *service.CourseService
	Enrollment  *service.EnrollmentService
	Marks       *service.MarkService
	Attendance  *service.AttendanceService
	Canteen     *service.CanteenService
	Feedback    *service.FeedbackService
	Locations   *service.LocationService
	Metrics     *statsd.Client

	enrollmentRepo *data.EnrollmentRepo
}

// ServiceDeps contains the external dependencies services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories and services for the configured modes.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	userRepo := data.NewUserRepo(deps.DB)
	departmentRepo := data.NewDepartmentRepo(deps.DB)
	courseRepo := data.NewCourseRepo(deps.DB)
	enrollmentRepo := data.NewEnrollmentRepo(deps.DB)
	markRepo := data.NewMarkRepo(deps.DB)
	attendanceRepo := data.NewAttendanceRepo(deps.DB)
	canteenRepo := data.NewCanteenRepo(deps.DB)
	feedbackRepo := data.NewFeedbackRepo(deps.DB)
	locationRepo := data.NewLocationRepo(deps.RedisClient)

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: deps.Config.Statsd.Enabled,
		Address: deps.Config.Statsd.Addr,
		Prefix:  deps.Config.Statsd.Prefix,
		Logger:  deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build statsd client: %w", err)
	}

	authSvc, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	return ServiceContainer{
		Auth:        authSvc,
		Nav:         service.NewNavigator(authSvc, domainauth.DefaultPolicy()),
		Users:       service.NewUserService(userRepo),
		Departments: service.NewDepartmentService(departmentRepo),
		Courses:     service.NewCourseService(courseRepo, userRepo),
		Enrollment:  service.NewEnrollmentService(enrollmentRepo, courseRepo),
		Marks:       service.NewMarkService(markRepo, courseRepo),
		Attendance:  service.NewAttendanceService(attendanceRepo, courseRepo),
		Canteen:     service.NewCanteenService(canteenRepo),
		Feedback:    service.NewFeedbackService(feedbackRepo),
		Locations:   service.NewLocationService(locationRepo, userRepo),
		Metrics:     sink,

		enrollmentRepo: enrollmentRepo,
	}, nil
}

// RunDeps contains everything needed to run the configured services.
type RunDeps struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the enabled services and blocks until the
// process receives SIGINT/SIGTERM or a service fails, then shuts down
// gracefully.
func RunServicesWithShutdown(ctx context.Context, deps RunDeps) error {
	enabled, err := deps.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	var server *http.Server
	if enabled[config.ServiceModeHTTP] {
		server = StartHTTPServer(&HTTPServerConfig{
			Config:   deps.Config,
			Services: deps.Services,
			Logger:   deps.Logger,
		})
	}

	if enabled[config.ServiceModeScheduler] {
		runner, runnerErr := scheduler.NewRunner(scheduler.RunnerOptions{
			Windows:  deps.Services.enrollmentRepo,
			Interval: deps.Config.Scheduler.Interval,
			Logger:   deps.Logger,
			Metrics:  deps.Services.Metrics,
		})
		if runnerErr != nil {
			return fmt.Errorf("build scheduler: %w", runnerErr)
		}
		group.Go(func() error {
			return runner.Run(ctx)
		})
	}

	// Wait for shutdown signal or a failed service.
	group.Go(func() error {
		<-ctx.Done()
		return nil
	})

	waitErr := group.Wait()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			deps.Logger.Error("http server shutdown failed", "error", shutdownErr)
		}
	}

	if closeErr := deps.Services.Metrics.Close(); closeErr != nil {
		deps.Logger.Error("statsd client close failed", "error", closeErr)
	}

	deps.Logger.Info("shutdown complete")
	return waitErr
}
