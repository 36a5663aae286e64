package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/faultline/pkg/faultline"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEndpointCommand(t *testing.T) {
	stdout, _, err := execute(t, "endpoint", "--dsn", "https://tok@ingest.example.com:8443/team/7")
	require.NoError(t, err)
	assert.Equal(t, "https://ingest.example.com:8443/team/api/v1/project/tok/trace\n", stdout)
}

func TestEndpointCommand_FromEnv(t *testing.T) {
	t.Setenv(faultline.EnvDSN, "http://tok@localhost/1")
	stdout, _, err := execute(t, "endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/api/v1/project/tok/trace\n", stdout)
}

func TestEndpointCommand_InvalidDSN(t *testing.T) {
	_, _, err := execute(t, "endpoint", "--dsn", "ftp://nope")
	assert.ErrorIs(t, err, faultline.ErrInvalidDSN)
}

func TestSendEventCommand_Noop(t *testing.T) {
	stdout, _, err := execute(t, "send-event", "--dsn", "http://tok@localhost/1", "--transport", "noop")
	require.NoError(t, err)

	_, err = faultline.ParseEventID(strings.TrimSpace(stdout))
	assert.NoError(t, err, "stdout should hold the event ID")
}

func TestSendEventCommand_Stderr(t *testing.T) {
	_, stderr, err := execute(t, "send-event",
		"--dsn", "http://tok@localhost/1",
		"--transport", "stderr",
		"--error-type", "QuotaExceeded",
		"--message", "tenant %s over quota",
		"--param", "acme",
		"--tag", "team=payments",
		"--level", "warning",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "[FAULTLINE]")
	assert.Contains(t, stderr, "WARNING")
	assert.Contains(t, stderr, "QuotaExceeded: tenant acme over quota")
}

func TestSendEventCommand_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"--level", "loud", "--transport", "noop"}},
		{"bad transport", []string{"--transport", "carrier-pigeon"}},
		{"bad dsn", []string{"--dsn", "nope", "--transport", "noop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"send-event", "--dsn", "http://tok@localhost/1"}, tt.args...)
			_, _, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}
