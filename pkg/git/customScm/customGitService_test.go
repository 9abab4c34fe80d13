package customScm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewGitService(t *testing.T) {
	service, err := NewGitService("github_token", "")
	assert.Nil(t, err)
	assert.NotNil(t, service)

	service, err = NewGitService("github_token", "http://[::1")
	assert.NotNil(t, err)
	assert.Nil(t, service, "should not return a typed nil")
}
