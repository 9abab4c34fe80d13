package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Runtime writes the workflow commands the GitHub Actions runner understands.
// EnvFile and OutputFile are the GITHUB_ENV and GITHUB_OUTPUT paths, empty outside of Actions.
type Runtime struct {
	Out        io.Writer
	EnvFile    string
	OutputFile string
}

func NewRuntime(out io.Writer, envFile string, outputFile string) *Runtime {
	return &Runtime{
		Out:        out,
		EnvFile:    envFile,
		OutputFile: outputFile,
	}
}

// AddMask makes the runner redact the value from every later log line
func (r *Runtime) AddMask(value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(r.Out, "::add-mask::%s\n", escapeData(value))
}

// ExportVariable sets the variable for this process, its children,
// and the following steps of the workflow job
func (r *Runtime) ExportVariable(name string, value string) error {
	err := os.Setenv(name, value)
	if err != nil {
		return errors.Wrapf(err, "cannot set %s", name)
	}
	if r.EnvFile == "" {
		return nil
	}
	return appendFileCommand(r.EnvFile, name, value)
}

// SetOutput sets a step output. It is a no-op outside of GitHub Actions.
func (r *Runtime) SetOutput(name string, value string) error {
	if r.OutputFile == "" {
		return nil
	}
	return appendFileCommand(r.OutputFile, name, value)
}

func appendFileCommand(path string, key string, value string) error {
	message, err := keyValueMessage(key, value)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()

	_, err = f.WriteString(message)
	return errors.Wrapf(err, "cannot write %s", path)
}

// keyValueMessage uses the heredoc form, so multiline values are safe
func keyValueMessage(key string, value string) (string, error) {
	delimiter := "ghadelimiter_" + uuid.New().String()
	if strings.Contains(key, delimiter) {
		return "", errors.Errorf("unexpected input: name should not contain the delimiter %q", delimiter)
	}
	if strings.Contains(value, delimiter) {
		return "", errors.Errorf("unexpected input: value should not contain the delimiter %q", delimiter)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter), nil
}
