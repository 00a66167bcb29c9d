package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modelkit/internal/builder"
	"modelkit/internal/manifest"
	"modelkit/internal/registry"
	"modelkit/pkg/types"
)

// addManifestFlags registers the directive flags shared by render, write and create.
func addManifestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("model", "", "Registry model id (file name under --models-dir)")
	f.String("model-path", "", "Explicit path to the quantized model artifact")
	f.String("adapter", "", "Optional LoRA adapter path")
	f.String("preset", "", "Preset supplying template and stop strings")
	f.String("template", "", "Response template text")
	f.String("template-file", "", "Read the response template from a file")
	f.StringArray("stop", nil, "Stop string (repeatable, order preserved)")
	f.String("system", "", "System instruction")
	f.StringArray("param", nil, "Extra PARAMETER as key=value (repeatable)")
	f.String("license", "", "License text")
}

// request assembles a ManifestRequest from config file values, env and flags.
func (a *app) request(cmd *cobra.Command) (types.ManifestRequest, error) {
	req := a.cfg.Manifest
	req.Stops = append([]string(nil), req.Stops...)
	params := make(map[string]string, len(req.Parameters))
	for k, v := range req.Parameters {
		params[k] = v
	}
	req.Parameters = params

	req.Model = a.v.GetString("model")
	req.ModelPath = a.v.GetString("model-path")
	req.Adapter = a.v.GetString("adapter")
	req.Preset = a.v.GetString("preset")
	req.Template = a.v.GetString("template")
	req.System = a.v.GetString("system")
	req.License = a.v.GetString("license")

	if p := a.v.GetString("template-file"); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return req, fmt.Errorf("template file: %w", err)
		}
		req.Template = strings.TrimSuffix(string(b), "\n")
	}
	if cmd.Flags().Changed("stop") {
		stops, _ := cmd.Flags().GetStringArray("stop")
		req.Stops = stops
	}
	if cmd.Flags().Changed("param") {
		kvs, _ := cmd.Flags().GetStringArray("param")
		for _, kv := range kvs {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return req, usageErr(cmd, "--param %q must be key=value", kv)
			}
			req.Parameters[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if req.Model == "" && req.ModelPath == "" {
		return req, usageErr(cmd, "one of --model or --model-path is required")
	}
	return req, nil
}

// newBuilder scans the models directory only when the request needs it.
func (a *app) newBuilder(req types.ManifestRequest) (*builder.Builder, error) {
	var reg []types.Model
	if req.ModelPath == "" {
		dir := a.v.GetString("models-dir")
		models, err := registry.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load models from %s: %w", dir, err)
		}
		a.log.Debug().Str("dir", dir).Int("models", len(models)).Msg("registry loaded")
		reg = models
	}
	return builder.New(builder.Config{
		Registry:      reg,
		DefaultPreset: a.v.GetString("default-preset"),
		Logger:        &a.log,
	}), nil
}

func (a *app) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Print the Modelfile for a model",
		Example: "  modelkit render --model-path ./out/model-q4_k_m.gguf --preset llama3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd)
			if err != nil {
				return err
			}
			b, err := a.newBuilder(req)
			if err != nil {
				return err
			}
			text, err := b.Render(req)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	addManifestFlags(cmd)
	return cmd
}

func (a *app) writeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "write [path]",
		Short:   "Write the Modelfile for a model to disk",
		Example: "  modelkit write ./out/Modelfile --model-path ./out/model-q4_k_m.gguf --preset llama3",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd)
			if err != nil {
				return err
			}
			path := a.v.GetString("output")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = manifest.DefaultFilename
			}
			b, err := a.newBuilder(req)
			if err != nil {
				return err
			}
			text, err := b.Write(req, path)
			if err != nil {
				return err
			}
			a.log.Info().Str("path", path).Int("bytes", len(text)).Msg("manifest written")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	addManifestFlags(cmd)
	cmd.Flags().String("output", "", "Output path (default ./Modelfile)")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <modelfile>",
		Short: "Parse an existing Modelfile and print its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.ParseFile(args[0])
			if err != nil {
				return err
			}
			for _, d := range m.Directives() {
				a.log.Debug().Str("kind", string(d.Kind)).Str("key", d.Key).Msg("directive")
			}
			text, err := m.Render()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}
