package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelkit/internal/config"
)

// app carries resolved settings shared by every subcommand.
type app struct {
	v   *viper.Viper
	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	a.v.SetEnvPrefix("MODELKIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "modelkit",
		Short:         "Assemble and package Modelfiles for quantized models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (.yaml, .json or .toml); env MODELKIT_CONFIG")
	root.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentFlags().String("models-dir", "~/models/llm", "Directory to scan for *.gguf model files")
	root.PersistentFlags().String("default-preset", "", "Preset applied when a request names none")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := a.v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if path := a.v.GetString("config"); path != "" {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.applyFileDefaults()
		}
		a.log = newLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"))
		return nil
	}

	root.AddCommand(
		a.renderCmd(),
		a.writeCmd(),
		a.inspectCmd(),
		a.modelsCmd(),
		a.presetsCmd(),
		a.createCmd(),
		a.serveCmd(),
	)
	return root
}

// applyFileDefaults installs config file values beneath flags and env.
func (a *app) applyFileDefaults() {
	set := func(key, val string) {
		if val != "" {
			a.v.SetDefault(key, val)
		}
	}
	c := a.cfg
	set("addr", c.Addr)
	set("models-dir", c.ModelsDir)
	set("output-dir", c.OutputDir)
	set("default-preset", c.DefaultPreset)
	set("log-level", c.LogLevel)
	set("ollama-bin", c.OllamaBin)
	if len(c.CORSOrigins) > 0 {
		a.v.SetDefault("cors-origins", strings.Join(c.CORSOrigins, ","))
	}
	m := c.Manifest
	set("model", m.Model)
	set("model-path", m.ModelPath)
	set("adapter", m.Adapter)
	set("preset", m.Preset)
	set("template", m.Template)
	set("system", m.System)
	set("license", m.License)
	set("output", m.Output)
}

// newLogger builds a console zerolog logger for CLI progress output.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func usageErr(cmd *cobra.Command, format string, args ...any) error {
	return fmt.Errorf("%s: %s", cmd.CommandPath(), fmt.Sprintf(format, args...))
}
