package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayberkarici/fucom/internal/config"
	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/storage"
	"github.com/ayberkarici/fucom/internal/survey"
	"github.com/ayberkarici/fucom/internal/telemetry"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey API and web UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	catalog, err := fucom.LoadCatalog(cfg.Survey.CatalogFile)
	if err != nil {
		return err
	}
	uploader, err := buildUploader(ctx, cfg)
	if err != nil {
		return err
	}
	records, err := openRecords(cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	submitter := survey.NewSubmitter(survey.SubmitterConfig{
		Catalog:         catalog,
		Strict:          cfg.Survey.StrictValidation,
		AppendTimestamp: cfg.Survey.AppendTimestamp,
		UploadTimeout:   cfg.Storage.UploadTimeout,
	}, uploader, records, log.Logger)

	handler := survey.NewServer(survey.Options{
		Submitter: submitter,
		Sessions:  survey.NewSessionStore(catalog, cfg.RegeneratePolicy(), cfg.Survey.SessionTTL),
		Catalog:   catalog,
		WebDir:    cfg.Server.WebDir,
		Logger:    log.Logger,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("storage", cfg.Storage.Backend).
			Bool("sqlite_records", cfg.Records.Path != "").
			Msg("fucom listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func buildUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	switch cfg.Storage.Backend {
	case "local":
		up, err := storage.NewLocalUploader(cfg.Storage.LocalDir)
		if err != nil {
			return nil, err
		}
		return up, nil
	case "drive":
		up, err := storage.NewDriveUploader(ctx, cfg.DriveSettings())
		if err != nil {
			return nil, err
		}
		return up, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func openRecords(cfg *config.Config) (survey.RecordStore, error) {
	if cfg.Records.Path == "" {
		return survey.NewMemoryRecordStore(), nil
	}
	store, err := survey.NewSQLiteRecordStore(cfg.Records.Path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
