package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetup_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, false)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("默认级别不应输出 debug/info：%q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Fatalf("期望输出 warn：%q", out)
	}
}

func TestSetup_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, true)

	l.Debug("page fetched")
	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "page fetched") {
		t.Fatalf("verbose 时期望输出 debug：%q", buf.String())
	}
}

func TestWithRun_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	l := WithRun(Setup(&buf, false), "abc-123")

	l.Warn("x")
	if !strings.Contains(buf.String(), "run_id=abc-123") {
		t.Fatalf("期望包含 run_id：%q", buf.String())
	}

	if WithRun(l, "") != l {
		t.Fatalf("空 run_id 应原样返回 logger")
	}
}
