package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neduet/campus-api/internal/bootstrap"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

const (
	sessionKeyPattern         = "portal:session:*"
	defaultSessionScanTimeout = time.Minute
)

type clearSessionsOptions struct {
	Email string
	All   bool
	Yes   bool
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	email := fs.String("email", "", "revoke sessions belonging to this email")
	all := fs.Bool("all", false, "revoke every active session")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, fmt.Errorf("parse flags: %w", err)
	}
	opts := clearSessionsOptions{Email: strings.ToLower(strings.TrimSpace(*email)), All: *all, Yes: *yes}
	if opts.Email == "" && !opts.All {
		return clearSessionsOptions{}, errors.New("provide --email or --all")
	}
	if opts.Email != "" && opts.All {
		return clearSessionsOptions{}, errors.New("--email and --all are mutually exclusive")
	}
	return opts, nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if err := writef(tw, "TOKEN\tUSER\tEMAIL\tROLE\tEXPIRES\n"); err != nil {
			return err
		}
		err := scanSessions(ctx, client, func(token string, sess domainauth.Session) error {
			return writef(tw, "%s\t%s\t%s\t%s\t%s\n",
				abbreviateToken(token), sess.UserID, sess.Email, sess.Role,
				sess.ExpiresAt.Format(time.RFC3339))
		})
		if err != nil {
			return err
		}
		return tw.Flush()
	})
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}

	if !opts.Yes {
		warning := "WARNING: this will revoke active sessions and force the affected users to sign in again."
		if confirmErr := confirmAction(warning); confirmErr != nil {
			return confirmErr
		}
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		removed := 0
		err := scanSessions(ctx, client, func(token string, sess domainauth.Session) error {
			if !opts.All && !strings.EqualFold(sess.Email, opts.Email) {
				return nil
			}
			if delErr := client.Del(ctx, token).Err(); delErr != nil {
				return fmt.Errorf("delete session %s: %w", abbreviateToken(token), delErr)
			}
			removed++
			return nil
		})
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("sessions revoked", "count", removed)
		return nil
	})
}

// scanSessions walks every session key and invokes f with the full Redis key
// and the decoded session. Records that fail to decode are skipped; the store
// treats them as absent and so does this tool.
func scanSessions(
	ctx context.Context,
	client redis.UniversalClient,
	f func(token string, sess domainauth.Session) error,
) error {
	iter := client.Scan(ctx, 0, sessionKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("read session %s: %w", key, err)
		}
		var sess domainauth.Session
		if jsonErr := json.Unmarshal(raw, &sess); jsonErr != nil {
			continue
		}
		if err = f(key, sess); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}
	return nil
}

func abbreviateToken(key string) string {
	token := strings.TrimPrefix(key, "portal:session:")
	if len(token) > 12 {
		return token[:8] + "..."
	}
	return token
}

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, defaultSessionScanTimeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}
