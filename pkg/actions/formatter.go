package actions

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formatter renders logrus entries as GitHub Actions workflow commands,
// so warnings and errors show up as annotations on the workflow run.
type Formatter struct{}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	message := entry.Message
	if fields := formatFields(entry.Data); fields != "" {
		message = message + " " + fields
	}

	var b bytes.Buffer
	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		b.WriteString("::debug::" + escapeData(message))
	case logrus.WarnLevel:
		b.WriteString("::warning::" + escapeData(message))
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString("::error::" + escapeData(message))
	default:
		b.WriteString(message)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func formatFields(data logrus.Fields) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
