package config

import "testing"

func TestLoadListenDefaults(t *testing.T) {
	cfg, err := LoadListen()
	if err != nil {
		t.Fatalf("LoadListen: %v", err)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Errorf("BlockSize = %d, want 2048", cfg.BlockSize)
	}
	if cfg.Permissive {
		t.Error("Permissive should default to false")
	}
}

func TestLoadListenOverrides(t *testing.T) {
	t.Setenv("TCGRAB_SAMPLE_RATE", "44100")
	t.Setenv("TCGRAB_BLOCK_SIZE", "4096")
	t.Setenv("TCGRAB_PERMISSIVE", "true")

	cfg, err := LoadListen()
	if err != nil {
		t.Fatalf("LoadListen: %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.BlockSize != 4096 {
		t.Errorf("BlockSize = %d, want 4096", cfg.BlockSize)
	}
	if !cfg.Permissive {
		t.Error("Permissive should be true")
	}
}

func TestLoadListenRejectsBadValues(t *testing.T) {
	t.Setenv("TCGRAB_SAMPLE_RATE", "0")
	if _, err := LoadListen(); err == nil {
		t.Error("expected error for zero sample rate")
	}

	t.Setenv("TCGRAB_SAMPLE_RATE", "48000")
	t.Setenv("TCGRAB_BLOCK_SIZE", "-1")
	if _, err := LoadListen(); err == nil {
		t.Error("expected error for negative block size")
	}
}
