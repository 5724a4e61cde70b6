package config

import (
	"testing"

	"k9stats/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SPARSE_THRESHOLD", "")
	t.Setenv("EVAL_PARALLELISM", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.SparseThreshold != 10 {
		t.Errorf("threshold = %d, want 10", cfg.Analysis.SparseThreshold)
	}
	if cfg.Analysis.Parallelism != 1 {
		t.Errorf("parallelism = %d, want 1", cfg.Analysis.Parallelism)
	}
	if cfg.Database.URL != "" {
		t.Errorf("database URL should default empty, got %q", cfg.Database.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/k9stats_test")
	t.Setenv("SPARSE_THRESHOLD", "5")
	t.Setenv("EVAL_PARALLELISM", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.SparseThreshold != 5 || cfg.Analysis.Parallelism != 8 {
		t.Errorf("overrides not applied: %+v", cfg.Analysis)
	}
	if cfg.Database.URL != "postgres://localhost/k9stats_test" {
		t.Errorf("database URL = %q", cfg.Database.URL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric threshold":   {"SPARSE_THRESHOLD": "ten"},
		"zero threshold":          {"SPARSE_THRESHOLD": "0"},
		"negative parallelism":    {"EVAL_PARALLELISM": "-2"},
		"non-numeric parallelism": {"EVAL_PARALLELISM": "many"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SPARSE_THRESHOLD", "")
			t.Setenv("EVAL_PARALLELISM", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected a config error")
			}
		})
	}
}

func TestLoad_ValidationCode(t *testing.T) {
	t.Setenv("SPARSE_THRESHOLD", "0")
	_, err := Load()
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}
