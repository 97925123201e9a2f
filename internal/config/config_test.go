package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathIsZeroValue(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFile != "" || cfg.Verbose {
		t.Errorf("got %+v, want zero value", cfg)
	}
}

func TestLoad_MissingFileIsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFile != "" || cfg.Verbose {
		t.Errorf("got %+v, want zero value", cfg)
	}
}

func TestLoad_ParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conlog.yaml")
	body := "log_file: conlog.log\nverbose: true\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFile != "conlog.log" || !cfg.Verbose {
		t.Errorf("got %+v, want log_file=conlog.log verbose=true", cfg)
	}
}
