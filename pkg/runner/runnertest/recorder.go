// Package runnertest provides a runner.Runner that records commands instead of executing them
package runnertest

import (
	"context"
	"strings"

	"github.com/gimlet-io/vercel-deployment/pkg/runner"
)

// Recorder keeps every command it is asked to run.
// Handler, when set, decides the outcome of each command.
type Recorder struct {
	Commands []runner.Command
	Handler  func(command runner.Command) (*runner.Result, error)
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Run(ctx context.Context, command runner.Command) (*runner.Result, error) {
	r.Commands = append(r.Commands, command)
	if r.Handler == nil {
		return &runner.Result{}, nil
	}
	return r.Handler(command)
}

// Invoked returns the recorded commands that have the given argument
func (r *Recorder) Invoked(arg string) []runner.Command {
	var matching []runner.Command
	for _, c := range r.Commands {
		if c.Name == arg || HasArg(c, arg) {
			matching = append(matching, c)
		}
	}
	return matching
}

func HasArg(command runner.Command, arg string) bool {
	for _, a := range command.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// Line is the command line without redaction
func Line(command runner.Command) string {
	return strings.Join(append([]string{command.Name}, command.Args...), " ")
}
