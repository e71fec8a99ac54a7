package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/idempotency"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger"
	ledgerdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/migration"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/observability"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/redis"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/server"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:     "cabinbuddy",
		Short:   "CabinBuddy stay billing and credit reconciliation",
		Version: readVersionFromEnv(),
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	root.AddCommand(
		newMigrateCmd(&configPath),
		newServeCmd(&configPath),
		newLedgerCmd(&configPath),
	)
	return root
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(*configPath)
		},
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, then the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe(*configPath)
			return nil
		},
	}
}

func newLedgerCmd(configPath *string) *cobra.Command {
	var (
		orgID   string
		hostKey string
		stayRef string
	)
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Compute an organization's ledger and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := orgcontext.Parse(orgID)
			if !ok {
				return fmt.Errorf("invalid --org %q", orgID)
			}
			ctx := orgcontext.WithOrgID(cmd.Context(), id)
			return runLedger(ctx, *configPath, func(ctx context.Context, svc ledgerdomain.Service) (any, error) {
				switch {
				case stayRef != "":
					return svc.GetStayFinancials(ctx, stayRef)
				case hostKey != "":
					return svc.ComputeHostLedger(ctx, hostKey)
				default:
					return svc.ComputeOrgLedger(ctx)
				}
			})
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id")
	cmd.Flags().StringVar(&hostKey, "host", "", "limit output to one host key")
	cmd.Flags().StringVar(&stayRef, "stay", "", "limit output to one stay or split:<id> reference")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func infrastructure(configPath string) fx.Option {
	return fx.Options(
		config.Module(configPath),
		observability.Module,
		db.Module,
		clock.Module,
	)
}

func domainModules() fx.Option {
	return fx.Options(
		rate.Module,
		stay.Module,
		payment.Module,
		receipt.Module,
		ledger.Module,
	)
}

func runMigrate(configPath string) error {
	app := fx.New(
		infrastructure(configPath),
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe(configPath string) {
	app := fx.New(
		infrastructure(configPath),
		migration.Module,
		redis.Module,
		idempotency.Module,
		domainModules(),
		server.Module,
	)
	app.Run()
}

func runLedger(ctx context.Context, configPath string, fn func(context.Context, ledgerdomain.Service) (any, error)) error {
	var svc ledgerdomain.Service
	app := fx.New(
		infrastructure(configPath),
		redis.Module,
		idempotency.Module,
		domainModules(),
		fx.Populate(&svc),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	out, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
