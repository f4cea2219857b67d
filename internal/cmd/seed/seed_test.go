package seed

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GameConfigPath != "game.yml" {
		t.Fatalf("expected default game config path, got %q", cfg.GameConfigPath)
	}
	if cfg.AssetsDir != "assets" {
		t.Fatalf("expected default assets dir, got %q", cfg.AssetsDir)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("TURFWARS_BUCKET", "env-bucket")

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-bucket", "flag-bucket"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bucket != "flag-bucket" {
		t.Fatalf("expected flag to win over env, got %q", cfg.Bucket)
	}
}
