// Package devseed populates a development database with a small, predictable
// set of accounts, departments, courses, and canteen items. Seeding is
// idempotent: records that already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// DevPassword is the password every seeded account receives. Development only.
const DevPassword = "campus-dev-password"

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB          *sql.DB
	users       *service.UserService
	userRepo    *data.UserRepo
	departments *service.DepartmentService
	courses     *service.CourseService
	canteen     *service.CanteenService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	userRepo := data.NewUserRepo(db)
	return Services{
		DB:          db,
		users:       service.NewUserService(userRepo),
		userRepo:    userRepo,
		departments: service.NewDepartmentService(data.NewDepartmentRepo(db)),
		courses:     service.NewCourseService(data.NewCourseRepo(db), userRepo),
		canteen:     service.NewCanteenService(data.NewCanteenRepo(db)),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	departments, err := seedDepartments(ctx, svcs.departments, logger)
	if err != nil {
		return err
	}

	users, err := seedUsers(ctx, svcs, logger)
	if err != nil {
		return err
	}

	failures := 0
	failures += seedCourses(ctx, svcs.courses, departments, users, logger)
	failures += seedMenu(ctx, svcs.canteen, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedDepartments(
	ctx context.Context,
	svc *service.DepartmentService,
	logger *slog.Logger,
) (map[string]string, error) {
	names := []string{"Computer Science", "Electrical Engineering", "Mechanical Engineering"}

	byName := make(map[string]string, len(names))
	for _, name := range names {
		dept, err := svc.Create(ctx, &model.CreateDepartmentRequest{Name: name})
		if err != nil {
			if !errors.Is(err, data.ErrDepartmentNameExists) {
				return nil, fmt.Errorf("seed department %q: %w", name, err)
			}
			if logger != nil {
				logger.InfoContext(ctx, "department already exists", "name", name)
			}
			existing, lookupErr := findDepartmentByName(ctx, svc, name)
			if lookupErr != nil {
				return nil, lookupErr
			}
			byName[name] = existing
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "department created", "name", name, "id", dept.ID)
		}
		byName[name] = dept.ID
	}
	return byName, nil
}

func findDepartmentByName(ctx context.Context, svc *service.DepartmentService, name string) (string, error) {
	all, err := svc.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list departments: %w", err)
	}
	for _, d := range all {
		if d.Name == name {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("department %q not found after conflict", name)
}

type seedUser struct {
	Email      string
	Name       string
	Role       domainauth.Role
	Department string
	Semester   int
}

func seedAccounts() []seedUser {
	return []seedUser{
		{Email: "admin@campus.edu", Name: "Portal Admin", Role: domainauth.RoleAdmin},
		{Email: "ug@campus.edu", Name: "Asha Undergrad", Role: domainauth.RoleUndergrad, Department: "Computer Science", Semester: 3},
		{Email: "pg@campus.edu", Name: "Bilal Postgrad", Role: domainauth.RolePostgrad, Department: "Electrical Engineering", Semester: 1},
		{Email: "teacher@campus.edu", Name: "Prof. Carter", Role: domainauth.RoleTeacher, Department: "Computer Science"},
		{Email: "canteen@campus.edu", Name: "Canteen Desk", Role: domainauth.RoleCanteen},
		{Email: "point@campus.edu", Name: "Shuttle Point 1", Role: domainauth.RoleLocationPoint},
	}
}

// seedUsers provisions the standard dev accounts and returns user IDs by email.
func seedUsers(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
) (map[string]string, error) {
	byEmail := make(map[string]string)
	for _, acct := range seedAccounts() {
		req := &model.CreateUserRequest{
			Email:    acct.Email,
			Name:     acct.Name,
			Role:     acct.Role,
			Password: DevPassword,
		}
		if acct.Department != "" {
			dept := acct.Department
			req.Department = &dept
		}
		if acct.Semester > 0 {
			sem := acct.Semester
			req.Semester = &sem
		}

		user, err := svcs.users.Create(ctx, req)
		if err != nil {
			if !errors.Is(err, data.ErrUserEmailExists) {
				return nil, fmt.Errorf("seed user %q: %w", acct.Email, err)
			}
			if logger != nil {
				logger.InfoContext(ctx, "user already exists", "email", acct.Email)
			}
			existing, lookupErr := svcs.userRepo.GetByEmail(ctx, acct.Email)
			if lookupErr != nil {
				return nil, fmt.Errorf("look up user %q: %w", acct.Email, lookupErr)
			}
			byEmail[acct.Email] = existing.ID
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "user created", "email", user.Email, "role", user.Role)
		}
		byEmail[acct.Email] = user.ID
	}
	return byEmail, nil
}

func seedCourses(
	ctx context.Context,
	svc *service.CourseService,
	departments map[string]string,
	users map[string]string,
	logger *slog.Logger,
) int {
	teacherID := users["teacher@campus.edu"]
	csID := departments["Computer Science"]
	eeID := departments["Electrical Engineering"]
	if teacherID == "" || csID == "" || eeID == "" {
		if logger != nil {
			logger.WarnContext(ctx, "skipping course seed: prerequisite records missing")
		}
		return 1
	}

	courses := []model.CreateCourseRequest{
		{Name: "Data Structures", DepartmentID: csID, Semester: 3, TeacherID: teacherID},
		{Name: "Operating Systems", DepartmentID: csID, Semester: 5, TeacherID: teacherID},
		{Name: "Circuit Analysis", DepartmentID: eeID, Semester: 1, TeacherID: teacherID},
	}

	existing, err := svc.List(ctx, data.CoursesListOptions{})
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to list courses", "error", err)
		}
		return 1
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}

	failures := 0
	for i := range courses {
		req := courses[i]
		if present[req.Name] {
			if logger != nil {
				logger.InfoContext(ctx, "course already exists", "name", req.Name)
			}
			continue
		}
		created, createErr := svc.Create(ctx, &req)
		if createErr != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create course", "name", req.Name, "error", createErr)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "course created", "name", created.Name, "id", created.ID)
		}
	}
	return failures
}

func seedMenu(ctx context.Context, svc *service.CanteenService, logger *slog.Logger) int {
	items := []model.CreateMenuItemRequest{
		{Name: "Chicken Biryani", PriceCts: 35000},
		{Name: "Daal Chawal", PriceCts: 15000},
		{Name: "Samosa", PriceCts: 5000},
		{Name: "Chai", PriceCts: 4000},
	}

	failures := 0
	for i := range items {
		req := items[i]
		item, err := svc.AddMenuItem(ctx, &req)
		if err != nil {
			if errors.Is(err, data.ErrMenuItemExists) {
				if logger != nil {
					logger.InfoContext(ctx, "menu item already exists", "name", req.Name)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create menu item", "name", req.Name, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "menu item created", "name", item.Name, "id", item.ID)
		}
	}
	return failures
}
