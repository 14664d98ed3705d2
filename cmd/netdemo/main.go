// Package main is the netdemo application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"netdemo/internal"
	"netdemo/internal/app/apps"
	"netdemo/internal/app/cfg"
	"netdemo/internal/pkg/log"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use:   "netdemo",
		Short: "Client prediction, server reconciliation and entity interpolation demo.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Starts the authoritative server.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Starts a headless client.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}

	hostCmd = &cobra.Command{
		Use:   "host",
		Short: "Starts a server with a local client in the same process.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}

	replayCmd = &cobra.Command{
		Use:   "replay [journal...]",
		Short: "Replays snapshot journals, verifying their checksums.",
		Long:  "Replays the given journal files, or every journal in the record directory when none are given.",
		RunE:  runCmd,
	}
)

func newApp(_ context.Context, cmd *cobra.Command, args []string) (apps.App, error) {
	switch cmd.Name() {
	case "server":
		roster, err := cfg.RosterFromEnv()
		if err != nil {
			return nil, errors.Wrap(err, "roster cfg failed")
		}
		return apps.NewServerApp(
			cfg.AddrFromEnv(),
			cfg.PortFromEnv(),
			cfg.TransportFromEnv(),
			cfg.SecretFromEnv(),
			cfg.TickFromEnv(),
			cfg.RecordFromEnv(),
			cfg.ValidatorFromEnv(),
			roster,
		)
	case "client":
		roster, err := cfg.RosterFromEnv()
		if err != nil {
			return nil, errors.Wrap(err, "roster cfg failed")
		}
		return apps.NewClientApp(
			cfg.AddrFromEnv(),
			cfg.PortFromEnv(),
			cfg.TransportFromEnv(),
			cfg.SecretFromEnv(),
			cfg.TickFromEnv(),
			cfg.FeatureFromEnv(),
			cfg.InputFromEnv(),
			roster,
		)
	case "host":
		roster, err := cfg.RosterFromEnv()
		if err != nil {
			return nil, errors.Wrap(err, "roster cfg failed")
		}
		return apps.NewHostApp(
			cfg.AddrFromEnv(),
			cfg.PortFromEnv(),
			cfg.TransportFromEnv(),
			cfg.SecretFromEnv(),
			cfg.TickFromEnv(),
			cfg.FeatureFromEnv(),
			cfg.InputFromEnv(),
			cfg.RecordFromEnv(),
			cfg.ValidatorFromEnv(),
			roster,
		)
	case "replay":
		replay := cfg.NewReplayCfg(args...)
		if len(args) == 0 {
			var err error
			if replay, err = cfg.ReplayFromDir(internal.RecordDir); err != nil {
				return nil, errors.Wrap(err, "replay cfg failed")
			}
		}
		return apps.NewReplayApp(replay)
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := chainedCheck(
		ctx,
		envCheck,
	); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	app, err := newApp(ctx, cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	logger.WithFields(logrus.Fields{"app": internal.AppID, "cmd": cmd.Name()}).Info("starting")
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(context.Context) error {
	err := internal.ValidateEnv()
	if err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("load .env failed")
	}

	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,

		&internal.AddrFlag,
		&internal.PortFlag,
		&internal.TransportFlag,
		&internal.SecretFlag,

		&internal.ServerTickRateFlag,
		&internal.HostLoopMSFlag,
		&internal.RosterFileFlag,
		&internal.RecordDirFlag,
		&internal.MaxInputSecondsFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	clientFlags := []*internal.Flag{
		&internal.ClientTickRateFlag,
		&internal.PredictionFlag,
		&internal.ReconciliationFlag,
		&internal.InterpolationFlag,
		&internal.PatrolFlag,
	}
	for _, cmd := range []*cobra.Command{clientCmd, hostCmd} {
		if err := internal.RegisterCommandFlags(cmd, clientFlags); err != nil {
			logger.Fatalln(err)
		}
	}

	rootCmd.AddCommand(
		serverCmd,
		clientCmd,
		hostCmd,
		replayCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
