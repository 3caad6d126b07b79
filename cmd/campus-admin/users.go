package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/neduet/campus-api/internal/adapters/pgauth"
	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
)

const defaultUserCommandTimeout = 30 * time.Second

type createUserOptions struct {
	Email      string
	Name       string
	Role       string
	Password   string
	Department string
	Semester   int
}

func parseCreateUserFlags(args []string) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	name := fs.String("name", "", "display name (required)")
	role := fs.String("role", "", "account role: admin, student-undergrad, student-postgrad, teacher, canteen, location-point (required)")
	password := fs.String("password", "", "initial password; read from CAMPUS_ADMIN_PASSWORD when omitted")
	department := fs.String("department", "", "department name for students and teachers")
	semester := fs.Int("semester", 0, "current semester for students")
	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, fmt.Errorf("parse flags: %w", err)
	}
	opts := createUserOptions{
		Email:      strings.TrimSpace(*email),
		Name:       strings.TrimSpace(*name),
		Role:       strings.TrimSpace(*role),
		Password:   *password,
		Department: strings.TrimSpace(*department),
		Semester:   *semester,
	}
	if opts.Email == "" || opts.Name == "" || opts.Role == "" {
		return createUserOptions{}, errors.New("--email, --name, and --role are required")
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("CAMPUS_ADMIN_PASSWORD")
	}
	if opts.Password == "" {
		return createUserOptions{}, errors.New("provide --password or set CAMPUS_ADMIN_PASSWORD")
	}
	return opts, nil
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args)
	if err != nil {
		return err
	}

	role, err := domainauth.ParseRole(opts.Role)
	if err != nil {
		return fmt.Errorf("invalid role %q: %w", opts.Role, err)
	}

	req := &model.CreateUserRequest{
		Email:    opts.Email,
		Name:     opts.Name,
		Role:     role,
		Password: opts.Password,
	}
	if opts.Department != "" {
		req.Department = &opts.Department
	}
	if opts.Semester > 0 {
		req.Semester = &opts.Semester
	}

	return withDatabase(cmdCtx, defaultUserCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		hash, hashErr := pgauth.HashPassword(opts.Password)
		if hashErr != nil {
			return fmt.Errorf("hash password: %w", hashErr)
		}
		user, createErr := data.NewUserRepo(db).Create(ctx, req, hash)
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		cmdCtx.Logger.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
		return nil
	})
}

type setPasswordOptions struct {
	Email    string
	Password string
}

func parseSetPasswordFlags(args []string) (setPasswordOptions, error) {
	fs := flag.NewFlagSet("set-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "new password; read from CAMPUS_ADMIN_PASSWORD when omitted")
	if err := fs.Parse(args); err != nil {
		return setPasswordOptions{}, fmt.Errorf("parse flags: %w", err)
	}
	opts := setPasswordOptions{Email: strings.TrimSpace(*email), Password: *password}
	if opts.Email == "" {
		return setPasswordOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("CAMPUS_ADMIN_PASSWORD")
	}
	if opts.Password == "" {
		return setPasswordOptions{}, errors.New("provide --password or set CAMPUS_ADMIN_PASSWORD")
	}
	return opts, nil
}

func runSetPassword(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetPasswordFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultUserCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, getErr := repo.GetByEmail(ctx, opts.Email)
		if getErr != nil {
			return fmt.Errorf("look up user: %w", getErr)
		}
		hash, hashErr := pgauth.HashPassword(opts.Password)
		if hashErr != nil {
			return fmt.Errorf("hash password: %w", hashErr)
		}
		if updateErr := repo.UpdatePassword(ctx, user.ID, hash); updateErr != nil {
			return fmt.Errorf("update password: %w", updateErr)
		}
		cmdCtx.Logger.Info("password updated", "id", user.ID, "email", user.Email)
		return nil
	})
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	roleArg := fs.String("role", "", "role to list (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	role, err := domainauth.ParseRole(strings.TrimSpace(*roleArg))
	if err != nil {
		return fmt.Errorf("invalid role %q: %w", *roleArg, err)
	}

	return withDatabase(cmdCtx, defaultUserCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users, listErr := data.NewUserRepo(db).ListByRole(ctx, role)
		if listErr != nil {
			return fmt.Errorf("list users: %w", listErr)
		}
		return printUserTable(users)
	})
}

func printUserTable(users []*model.User) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tEMAIL\tNAME\tDEPARTMENT\tSEMESTER\tCREATED\n"); err != nil {
		return err
	}
	for _, u := range users {
		dept := "-"
		if u.Department != nil {
			dept = *u.Department
		}
		sem := "-"
		if u.Semester != nil {
			sem = fmt.Sprintf("%d", *u.Semester)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Email, u.Name, dept, sem, u.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
