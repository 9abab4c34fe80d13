package dx

import (
	"bytes"
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

// GitEvent represents the source control event that triggered the deployment
type GitEvent int

const (
	// Push deployment is triggered by a git push
	Push GitEvent = iota
	// PR deployment is triggered by a pull request event
	PR
)

func (s GitEvent) String() string {
	return toString[s]
}

// GitEventFromString maps a GITHUB_EVENT_NAME value to a GitEvent
func GitEventFromString(eventString string) (*GitEvent, error) {
	if event, ok := toID[eventString]; ok {
		return &event, nil
	}
	return nil, errors.New("wrong input")
}

var toString = map[GitEvent]string{
	Push: "push",
	PR:   "pull_request",
}

var toID = map[string]GitEvent{
	"push":         Push,
	"pull_request": PR,
}

// MarshalJSON marshals the enum as a quoted json string
func (s GitEvent) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(toString[s])
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

// UnmarshalJSON unmarshalls a quoted json string to the enum value
func (s *GitEvent) UnmarshalJSON(b []byte) error {
	var j string
	err := json.Unmarshal(b, &j)
	if err != nil {
		return err
	}
	event, ok := toID[j]
	if !ok {
		return errors.New("unknown git event: " + j)
	}
	*s = event
	return nil
}

// MarshalYAML marshals the enum as a yaml string
func (s GitEvent) MarshalYAML() (interface{}, error) {
	return toString[s], nil
}

// UnmarshalYAML unmarshalls a yaml string to the enum value
func (s *GitEvent) UnmarshalYAML(n *yaml.Node) error {
	var j string
	err := n.Decode(&j)
	if err != nil {
		return err
	}
	event, ok := toID[j]
	if !ok {
		return errors.New("unknown git event: " + j)
	}
	*s = event
	return nil
}
