package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()
	if limits.MaxAllocBytes != DefaultMaxAllocBytes {
		t.Errorf("MaxAllocBytes = %d", limits.MaxAllocBytes)
	}
	if limits.MaxReadBytes != DefaultMaxReadBytes {
		t.Errorf("MaxReadBytes = %d", limits.MaxReadBytes)
	}
	if limits.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v", limits.HTTPTimeout)
	}
}

func TestLoadLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := "max_alloc_bytes: 1024\nhttp_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if limits.MaxAllocBytes != 1024 {
		t.Errorf("MaxAllocBytes = %d, want 1024", limits.MaxAllocBytes)
	}
	if limits.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", limits.HTTPTimeout)
	}
	// Unset keys keep defaults.
	if limits.MaxReadBytes != DefaultMaxReadBytes {
		t.Errorf("MaxReadBytes = %d, want default", limits.MaxReadBytes)
	}
}

func TestLoadLimitsRejectsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte("max_read_bytes: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	limits, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if limits.MaxReadBytes != DefaultMaxReadBytes {
		t.Errorf("MaxReadBytes = %d, want default", limits.MaxReadBytes)
	}
}

func TestLoadLimitsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte("http_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLimits(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadLimitsMissingFile(t *testing.T) {
	_, err := LoadLimits(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
}
