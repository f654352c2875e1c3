package remesh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner runs a command with its output sent to out and returns the exit
// code. err is non-nil only when the command could not be run at all.
type Runner interface {
	Run(name string, args []string, out io.Writer) (exitCode int, err error)
}

// ExecRunner runs commands on the local host
type ExecRunner struct{}

func (r ExecRunner) Run(name string, args []string, out io.Writer) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 127, err
}

// Result is what the remesher reports back: its exit code and whether it
// produced the output mesh. Whether either is fatal is up to the caller.
type Result struct {
	ExitCode     int
	OutputExists bool
	Elapsed      time.Duration
}

// OK reports a zero exit with the output mesh in place
func (r Result) OK() bool { return r.ExitCode == 0 && r.OutputExists }

// Subprocess runs the remesher executable
type Subprocess struct {
	runner Runner
	log    zerolog.Logger
}

func NewSubprocess(runner Runner, log zerolog.Logger) *Subprocess {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Subprocess{
		runner: runner,
		log:    log.With().Str("component", "remesh").Logger(),
	}
}

// Run builds the command for p, sends its output to p.LogFile (discarded
// when empty) and waits for it to finish.
func (s *Subprocess) Run(p Params) (res Result, err error) {
	if err = p.Validate(); err != nil {
		return res, fmt.Errorf("remesh: %w", err)
	}
	var out io.Writer = io.Discard
	if p.LogFile != "" {
		var f *os.File
		if f, err = os.Create(p.LogFile); err != nil {
			return res, fmt.Errorf("remesh: unable to create log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	name, args := Command(p)
	s.log.Info().Str("cmd", name).Str("args", strings.Join(args, " ")).
		Str("log", p.LogFile).Msg("running remesher")

	start := time.Now()
	if res.ExitCode, err = s.runner.Run(name, args, out); err != nil {
		return res, fmt.Errorf("remesh: unable to run %s: %w", name, err)
	}
	res.Elapsed = time.Since(start)
	if _, statErr := os.Stat(p.MeshOut); statErr == nil {
		res.OutputExists = true
	}
	ev := s.log.Info()
	if !res.OK() {
		ev = s.log.Warn()
	}
	ev.Int("exit", res.ExitCode).Bool("output", res.OutputExists).
		Dur("elapsed", res.Elapsed).Msg("remesher finished")
	return
}
