package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"modelkit/internal/manifest"
	"modelkit/internal/packager"
)

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create <name>",
		Short:   "Write a Modelfile and register it with the packaging CLI",
		Example: "  modelkit create llama3-ft --model-path ./out/model-q4_k_m.gguf --preset llama3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd)
			if err != nil {
				return err
			}
			path := a.v.GetString("output")
			if path == "" {
				dir, err := os.MkdirTemp("", "modelkit-")
				if err != nil {
					return fmt.Errorf("temp dir: %w", err)
				}
				defer os.RemoveAll(dir)
				path = filepath.Join(dir, manifest.DefaultFilename)
			}
			// The packaging CLI resolves FROM and ADAPTER against the
			// Modelfile's directory, not ours.
			if req.ModelPath, err = anchorPath(req.ModelPath, path); err != nil {
				return err
			}
			if req.Adapter, err = anchorPath(req.Adapter, path); err != nil {
				return err
			}
			b, err := a.newBuilder(req)
			if err != nil {
				return err
			}
			if _, err := b.Write(req, path); err != nil {
				return err
			}
			p := &packager.Packager{Bin: a.v.GetString("ollama-bin"), Log: a.log}
			if err := p.Create(cmd.Context(), args[0], path); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
			return err
		},
	}
	addManifestFlags(cmd)
	cmd.Flags().String("output", "", "Keep the Modelfile at this path (default: temporary file)")
	cmd.Flags().String("ollama-bin", "", "Packaging CLI path (default: ollama on PATH)")
	return cmd
}

// anchorPath makes a relative local path absolute when the Modelfile at
// modelfile lives outside the working directory.
func anchorPath(p, modelfile string) (string, error) {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
		return p, nil
	}
	dir, err := filepath.Abs(filepath.Dir(modelfile))
	if err != nil {
		return "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if dir == wd {
		return p, nil
	}
	return filepath.Abs(p)
}
