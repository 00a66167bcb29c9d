package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modelkit/internal/builder"
	"modelkit/internal/httpapi"
	"modelkit/internal/packager"
	"modelkit/internal/registry"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the manifest HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelsDir := a.v.GetString("models-dir")
			reg, err := registry.LoadDir(modelsDir)
			if err != nil {
				return err
			}
			b := builder.New(builder.Config{
				Registry:      reg,
				DefaultPreset: a.v.GetString("default-preset"),
				Logger:        &a.log,
			})

			httpapi.SetLogger(a.log)
			httpapi.SetDefaultLogLevel(a.v.GetString("http-log-level"))
			httpapi.SetMaxBodyBytes(a.v.GetInt64("max-body-bytes"))
			httpapi.SetOutputRoot(a.v.GetString("output-dir"))
			if origins := splitCSV(a.v.GetString("cors-origins")); len(origins) > 0 {
				httpapi.SetCORSOptions(true, origins, nil, nil)
			}

			pk := &packager.Packager{Bin: a.v.GetString("ollama-bin"), Log: a.log}
			if rep := pk.SanityCheck(); !rep.Found {
				a.log.Warn().Str("error", rep.Error).Msg("packaging CLI unavailable; create is disabled on this host")
			}

			addr := a.v.GetString("addr")
			srv := &http.Server{Addr: addr, Handler: httpapi.NewMux(b), ReadHeaderTimeout: 10 * time.Second}
			errc := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", addr).Str("models_dir", modelsDir).Int("models", len(reg)).Msg("modelkit listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM); SIGHUP rescans the models dir.
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(stop)
			defer signal.Stop(hup)
		wait:
			for {
				select {
				case err, ok := <-errc:
					if ok {
						return err
					}
					return nil
				case <-hup:
					models, err := registry.LoadDir(modelsDir)
					if err != nil {
						a.log.Error().Err(err).Msg("rescan failed; keeping previous registry")
						continue
					}
					b.SetRegistry(models)
					a.log.Info().Int("models", len(models)).Msg("registry rescanned")
				case <-stop:
					break wait
				}
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.log.Error().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "HTTP listen address, e.g. :8080")
	f.String("output-dir", ".", "Directory POST /manifests writes under")
	f.String("cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	f.Int64("max-body-bytes", 1<<20, "Maximum JSON request body size")
	f.String("http-log-level", "", "Default per-request log level: off|error|info|debug")
	f.String("ollama-bin", "", "Packaging CLI path checked at startup")
	return cmd
}
