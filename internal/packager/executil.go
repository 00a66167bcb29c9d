package packager

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
)

// Cmd describes an external command invocation.
type Cmd struct {
	Path string
	Args []string
	Env  map[string]string // additional env vars
	Dir  string            // working directory
}

// RunCmd runs c to completion, forwarding each stdout/stderr line to log.
func RunCmd(ctx context.Context, log zerolog.Logger, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); stream(log, "stdout", stdout) }()
	go func() { defer wg.Done(); stream(log, "stderr", stderr) }()
	wg.Wait()
	return cmd.Wait()
}

func stream(log zerolog.Logger, name string, r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		log.Info().Str("stream", name).Msg(s.Text())
	}
}
