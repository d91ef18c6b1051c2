// Command fucom serves the FUCOM survey and renders survey responses to
// spreadsheets.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ayberkarici/fucom/internal/config"
)

var (
	// Set by build flags.
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type globalFlags struct {
	cfgFile   string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("fucom failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "fucom",
		Short: "FUCOM survey service",
		Long: `fucom collects FUCOM survey responses: demographics, criteria rankings and
adjacent-rank importance judgments. Each response becomes a fixed-layout
spreadsheet uploaded to Google Drive.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return initLogging(cmd.ErrOrStderr(), flags)
		},
	}
	root.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "config file (default: fucom.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newRenderCmd())
	root.AddCommand(newCheckDriveCmd(flags))
	root.AddCommand(newVersionCmd())
	root.SetVersionTemplate(fmt.Sprintf("fucom v%s\n", version))
	return root
}

func initLogging(out io.Writer, flags *globalFlags) error {
	if flags.logFormat == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
	level, err := parseLogLevel(flags.logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func parseLogLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// loadConfig reads the configuration. The config file's log level applies
// unless --log-level was given explicitly.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		zerolog.SetGlobalLevel(cfg.GetLogLevel())
	}
	if !cmd.Flags().Changed("log-format") && cfg.IsJSONFormat() {
		log.Logger = zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	}
	log.Debug().Str("version", version).Str("config_file", flags.cfgFile).Msg("configuration loaded")
	return cfg, nil
}
