package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/recenthist/history/historytest"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := app(&stdout, &stderr).Run(append([]string{"recenthist"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestApp_Stores(t *testing.T) {
	dir := t.TempDir()
	store := historytest.NewStore(t, dir, "History",
		historytest.At("https://old.example.com", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
		historytest.At("https://example.com", time.Date(2024, 1, 1, 0, 9, 0, 0, time.UTC)),
	)
	missing := filepath.Join(dir, "missing", "History")
	snapDir := t.TempDir()

	stdout, stderr, err := runApp(t,
		"--at", "2024-01-01T00:10:00Z",
		"--window", "600s",
		"--snapshot-dir", snapDir,
		missing, store,
	)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}

	if !strings.Contains(stdout, "Checking "+missing+" browsing history:\nFailed to copy database to temporary file: "+missing) {
		t.Errorf("missing store diagnostic not found:\n%s", stdout)
	}
	wantEntry := "Checking " + store + " browsing history:\n" +
		"URL: https://example.com, Visit Time (UTC): 2024-01-01 00:09:00\n"
	if !strings.HasSuffix(stdout, wantEntry) {
		t.Errorf("stdout does not end with the store section:\n%s", stdout)
	}
	if strings.Contains(stdout, "old.example.com") {
		t.Errorf("visit outside the window printed:\n%s", stdout)
	}
	if strings.Contains(stdout, "Checking Chrome") {
		t.Errorf("default browsers scanned although stores were given:\n%s", stdout)
	}
	if !strings.Contains(stderr, "some stores could not be read") {
		t.Errorf("stderr = %q", stderr)
	}

	entries, _ := os.ReadDir(snapDir)
	if len(entries) != 0 {
		t.Fatalf("residual snapshot files: %d", len(entries))
	}
}

func TestApp_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	store := historytest.NewStore(t, dir, "History",
		historytest.At("https://example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
	cfgPath := filepath.Join(dir, "recenthist.yaml")
	cfg := "window: 1h\nbrowsers: []\nlog_level: error\nstores:\n  - name: Fixture\n    path: " + store + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runApp(t, "--config", cfgPath, "--at", "2024-01-01T00:10:00Z", "--snapshot-dir", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	want := "Checking Fixture browsing history:\n" +
		"URL: https://example.com, Visit Time (UTC): 2024-01-01 00:00:00\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}

	// The flag wins over the file.
	stdout, _, err = runApp(t, "--config", cfgPath, "--window", "5m", "--at", "2024-01-01T00:10:00Z", "--snapshot-dir", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "Checking Fixture browsing history:\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestApp_ZeroWindow(t *testing.T) {
	store := historytest.NewStore(t, t.TempDir(), "History",
		historytest.At("https://earlier.example.com", time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)),
		historytest.At("https://now.example.com", time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)),
	)
	want := "Checking " + store + " browsing history:\n" +
		"URL: https://now.example.com, Visit Time (UTC): 2024-01-01 00:10:00\n"

	t.Run("flag", func(t *testing.T) {
		stdout, stderr, err := runApp(t, "--at", "2024-01-01T00:10:00Z", "--window", "0s", "--snapshot-dir", t.TempDir(), store)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		if stdout != want {
			t.Fatalf("stdout = %q, want %q", stdout, want)
		}
	})
	t.Run("env", func(t *testing.T) {
		t.Setenv("RECENTHIST_WINDOW", "0s")
		stdout, stderr, err := runApp(t, "--at", "2024-01-01T00:10:00Z", "--snapshot-dir", t.TempDir(), store)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		if stdout != want {
			t.Fatalf("stdout = %q, want %q", stdout, want)
		}
	})
}

func TestApp_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad reference time", []string{"--at", "yesterday", "x"}},
		{"negative window", []string{"--window", "-1m", "x"}},
		{"unknown browser", []string{"--browser", "mosaic"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runApp(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("log output = %q", buf.String())
	}
}
