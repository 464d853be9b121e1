package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("exp", Config{Console: &buf})
	if err != nil {
		t.Fatalf("could not create logger: %v", err)
	}

	l.Info("started %v", 1)
	l.Warning("careful")
	l.Error("failed")
	l.Debug("hidden")
	l.WeakLine()
	l.EpochInfo(3, F("J", 1.5), F("episodes", 10))

	out := buf.String()
	for _, want := range []string{
		"[exp][INFO] started 1",
		"[exp][WARNING] careful",
		"[exp][ERROR] failed",
		strings.Repeat("-", lineWidth),
		"Epoch 3 | J: 1.5000 | episodes: 10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug lines should be hidden unless enabled")
	}
}

func TestDebug(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New("exp", Config{Console: &buf, Debug: true})
	l.Debug("shown")
	if !strings.Contains(buf.String(), "[exp][DEBUG] shown") {
		t.Errorf("output %q should contain the debug line", buf.String())
	}
}

func TestColors(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New("exp", Config{Console: &buf, Colors: true})
	l.Info("coloured")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("output %q should contain colour codes", buf.String())
	}
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	var buf bytes.Buffer
	l, err := New("exp", Config{Dir: dir, Console: &buf, Colors: true})
	if err != nil {
		t.Fatalf("could not create logger: %v", err)
	}

	l.Info("to file")
	l.StrongLine()
	l.Std().Printf("from adapter")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "exp.log"))
	if err != nil {
		t.Fatalf("could not read log file: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"[exp][INFO] to file",
		strings.Repeat("#", lineWidth),
		"[exp] ",
		"from adapter",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log file %q should contain %q", content, want)
		}
	}
	if strings.Contains(content, "\x1b[") {
		t.Errorf("log file should not contain colour codes")
	}
	if !strings.Contains(buf.String(), "from adapter") {
		t.Errorf("Std() should also write to the console")
	}
}
