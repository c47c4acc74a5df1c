package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/horus-attendance/horus-backend-go/internal/app"
	"github.com/horus-attendance/horus-backend-go/internal/config"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openContainer).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// containerFactory builds the service container for one command run.
type containerFactory func(ctx context.Context) (*app.Container, error)

func openContainer(ctx context.Context) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return app.New(ctx, cfg)
}

// tokenIssuerFactory builds the signer used by the token command.
type tokenIssuerFactory func() (jwt.Service, error)

// loadTokenIssuer reads configuration only. No database connection is made.
func loadTokenIssuer() (jwt.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration), nil
}

func newRootCmd(open containerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "horusctl",
		Short:         "Attendance processing and reporting from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProcessCmd(open),
		newImportCmd(open),
		newReportCmd(open),
		newTokenCmd(loadTokenIssuer),
	)
	return root
}

func withContainer(cmd *cobra.Command, open containerFactory, fn func(c *app.Container) error) error {
	c, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
