package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

func TestSetup_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, false, false)
	log := slogctx.FromCtx(ctx)
	log.Debug("hidden")
	log.Info("shown", "namespace", "Zoo")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "namespace=Zoo")

	buf.Reset()
	ctx = Setup(context.Background(), &buf, true, false)
	slogctx.FromCtx(ctx).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetup_ErrorStack(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, false, false)
	slogctx.FromCtx(ctx).Error("failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "logging/logging_test.go:")
}
