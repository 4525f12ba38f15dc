package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			err := Init(Options{Level: tt.level, File: logFile, Quiet: true})
			if err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestRotationDefaults(t *testing.T) {
	opts := Options{}.rotation()

	if opts.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", opts.MaxBackups)
	}
	if opts.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", opts.MaxAgeDays)
	}
}

func TestRotationOverrides(t *testing.T) {
	opts := Options{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3}.rotation()

	if opts.MaxSizeMB != 1 || opts.MaxBackups != 2 || opts.MaxAgeDays != 3 {
		t.Errorf("explicit rotation settings were overridden: %+v", opts)
	}
}
