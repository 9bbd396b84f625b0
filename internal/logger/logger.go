package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup 生成写到 w 的文本格式 slog.Logger。
// verbose=false 时只输出 Warn 及以上；true 时输出 Debug（分页/请求细节）。
func Setup(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithRun 给 logger 绑定 run_id，便于把同一次导出的日志串起来。
func WithRun(l *slog.Logger, runID string) *slog.Logger {
	if runID == "" {
		return l
	}
	return l.With(slog.String("run_id", runID))
}
