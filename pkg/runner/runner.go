package runner

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Command is an external process to run
type Command struct {
	Dir  string
	Name string
	Args []string

	// Secrets are replaced with *** whenever the command is logged
	Secrets []string
}

func (c Command) String() string {
	s := strings.Join(append([]string{c.Name}, c.Args...), " ")
	for _, secret := range c.Secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}

// Result is returned once the process exited and both of its streams are drained
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

type Runner interface {
	Run(ctx context.Context, command Command) (*Result, error)
}

// ParseCommand splits a command line with shell word rules, eg.: `npx yarn build`
func ParseCommand(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, errors.Wrapf(err, "cannot parse command %q", line)
	}
	if len(words) == 0 {
		return Command{}, errors.New("command can not be empty")
	}
	return Command{
		Name: words[0],
		Args: words[1:],
	}, nil
}

type execRunner struct {
	logger *logrus.Entry
}

// NewExecRunner returns a runner that executes commands as child processes,
// logging their output line by line as it arrives
func NewExecRunner(logger *logrus.Entry) Runner {
	return &execRunner{
		logger: logger,
	}
}

func (r *execRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Name == "" {
		return nil, errors.New("command executable can not be empty")
	}

	logger := r.logger.WithField("cmd", command.Name)
	logger.Infof("$ %s", command)
	if command.Dir != "" {
		logger.Debugf("working directory: %s", command.Dir)
	}

	// nolint:gosec
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir

	var stdout, stderr bytes.Buffer
	stdoutLog := newLineWriter(logger.Info)
	stderrLog := newLineWriter(logger.Info)
	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = io.MultiWriter(&stderr, stderrLog)

	err := cmd.Run()
	stdoutLog.Flush()
	stderrLog.Flush()

	result := &Result{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, errors.Errorf("%s exited with code %d", command.Name, exitErr.ExitCode())
		}
		return result, errors.Wrapf(err, "cannot execute %s", command.Name)
	}

	return result, nil
}

// lineWriter logs complete lines and keeps the trailing partial line until the next write
type lineWriter struct {
	log func(args ...interface{})
	buf []byte
}

func newLineWriter(log func(args ...interface{})) *lineWriter {
	return &lineWriter{log: log}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.log(string(bytes.TrimRight(w.buf[:i], "\r")))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.log(string(w.buf))
		w.buf = nil
	}
}
