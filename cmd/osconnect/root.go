package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osconnect/internal/config"
	dbos "github.com/kailas-cloud/osconnect/internal/db/opensearch"
	"github.com/kailas-cloud/osconnect/internal/domain/endpoint"
	logpkg "github.com/kailas-cloud/osconnect/internal/logger"
	"github.com/kailas-cloud/osconnect/internal/version"
)

type rootFlags struct {
	env        string
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "osconnect",
		Short:         "Query an OpenSearch trade index from a browser or the command line",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load(flags.envFile)
		},
	}
	root.PersistentFlags().StringVar(&flags.env, "env", "", "environment name (local, prod); defaults to $ENV or local")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "explicit config file path")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the config")

	serve := newServeCmd(flags)
	root.AddCommand(serve, newPingCmd(flags), newExportCmd(flags))
	root.RunE = serve.RunE

	return root
}

// app holds the pieces every subcommand needs.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  *dbos.Store

	closeLogger func() error
}

func bootstrap(flags *rootFlags) (*app, error) {
	env := flags.env
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logEnv := env
	if logEnv != "prod" {
		logEnv = "local"
	}
	logger, closeLogger, err := logpkg.NewLogger(logEnv, logpkg.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	osc := cfg.OpenSearch
	store, err := dbos.NewStore(dbos.Config{
		Host:        endpoint.Normalize(osc.Host),
		Port:        osc.Port,
		Username:    osc.Username,
		Password:    osc.Password,
		UseSSL:      osc.UseSSL,
		VerifyCerts: osc.VerifyCerts,
		CACertsPath: osc.CACerts,
		Timeout:     time.Duration(osc.TimeoutSec) * time.Second,
	})
	if err != nil {
		_ = closeLogger()
		return nil, fmt.Errorf("create opensearch store: %w", err)
	}

	return &app{
		env:         env,
		cfg:         cfg,
		logger:      logger,
		store:       store,
		closeLogger: closeLogger,
	}, nil
}

// waitForCluster blocks until the cluster answers or the configured readiness timeout passes.
func (a *app) waitForCluster(ctx context.Context) error {
	if a.cfg.OpenSearch.ReadinessTimeout <= 0 {
		return nil
	}
	timeout := time.Duration(a.cfg.OpenSearch.ReadinessTimeout) * time.Second
	if err := a.store.WaitForReady(ctx, timeout); err != nil {
		return fmt.Errorf("opensearch not ready: %w", err)
	}
	a.logger.Info("Connected to OpenSearch")
	return nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.closeLogger()
}
