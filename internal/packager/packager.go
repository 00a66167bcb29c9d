// Package packager hands a written Modelfile to the external packaging CLI
// (`ollama create`). The CLI runs out of process; nothing here inspects the
// model artifact itself.
package packager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBin is the packaging CLI looked up on PATH when no path is configured.
const DefaultBin = "ollama"

// Packager invokes `<Bin> create <name> -f <modelfile>`.
type Packager struct {
	// Bin is the CLI path; empty means DefaultBin on PATH.
	Bin string
	Log zerolog.Logger
	// Env is added to the inherited environment (e.g. OLLAMA_HOST).
	Env map[string]string
}

// Create registers the Modelfile at modelfilePath under name.
func (p *Packager) Create(ctx context.Context, name, modelfilePath string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("invalid model name %q", name)
	}
	if _, err := os.Stat(modelfilePath); err != nil {
		return fmt.Errorf("modelfile: %w", err)
	}
	bin, err := p.resolve()
	if err != nil {
		return err
	}
	p.Log.Info().Str("bin", bin).Str("name", name).Str("modelfile", modelfilePath).Msg("packaging model")
	if err := RunCmd(ctx, p.Log, Cmd{Path: bin, Args: []string{"create", name, "-f", modelfilePath}, Env: p.Env}); err != nil {
		return fmt.Errorf("%s create %s: %w", bin, name, err)
	}
	return nil
}

func (p *Packager) resolve() (string, error) {
	if p.Bin != "" {
		return p.Bin, nil
	}
	bin, err := exec.LookPath(DefaultBin)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", DefaultBin, err)
	}
	return bin, nil
}

// SanityReport describes whether the packaging CLI is usable.
type SanityReport struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// SanityCheck validates that the packaging CLI is available.
// It does not run the binary.
func (p *Packager) SanityCheck() SanityReport {
	bin, err := p.resolve()
	if err != nil {
		return SanityReport{Error: err.Error()}
	}
	r := SanityReport{Path: bin}
	fi, err := os.Stat(bin)
	switch {
	case err != nil:
		r.Error = err.Error()
	case fi.IsDir():
		r.Error = "packager path is a directory"
	default:
		r.Found = true
	}
	return r
}
