package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

const timeFormat = "15:04:05.000"

// Setup installs a tint console logger wrapped in a slog-context handler as
// the default logger and returns ctx carrying it.
func Setup(ctx context.Context, w io.Writer, verbose, color bool) context.Context {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  timeFormat,
		AddSource:   verbose,
		NoColor:     !color,
		ReplaceAttr: formatErrorStacks,
	})
	logger := slog.New(slogctx.NewHandler(handler, nil))
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger)
}

// formatErrorStacks expands an error carrying a stack trace into the error
// and the place it was created.
func formatErrorStacks(groups []string, a slog.Attr) slog.Attr {
	if a.Key != "error" && a.Key != "err" {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var terr errors.E
	if !errors.As(err, &terr) || len(terr.StackTrace()) == 0 {
		return a
	}
	frame, _ := runtime.CallersFrames(terr.StackTrace()).Next()
	a.Value = slog.GroupValue(
		slog.Any("error", err),
		slog.String("at", fmt.Sprintf("%s/%s:%d", filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), frame.Line)),
	)
	return a
}
