package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"

	"tether/internal/config"
	"tether/internal/observability"
)

func TestMain(m *testing.M) {
	// Later InitializeLogger calls from PersistentPreRunE are no-ops.
	observability.Initialize(config.LoggerConfig{Level: "error", Format: "console"}, zapcore.AddSync(io.Discard))
	goleak.VerifyTestMain(m)
}

// execute runs a fresh root command and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCmd(t, newRootCmd(), args...)
}

func executeCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
