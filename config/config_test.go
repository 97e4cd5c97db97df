package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	got := Default()
	want := Config{
		MTS:                    MTSOff,
		TMVPEnable:             true,
		Log2ParallelMergeLevel: 2,
		MaxMerge:               5,
		Chroma:                 Chroma420,
		AMPEnable:              true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestChromaEnabled(t *testing.T) {
	c := Default()
	if !c.ChromaEnabled() {
		t.Error("4:2:0 default should report chroma enabled")
	}
	c.Chroma = Chroma400
	if c.ChromaEnabled() {
		t.Error("4:0:0 should report chroma disabled")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"MTS":2,"WPP":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MTS != MTSInter {
		t.Errorf("MTS = %v, want MTSInter", got.MTS)
	}
	if !got.WPP {
		t.Error("WPP = false, want true")
	}
	// Unset fields retain the Default() baseline.
	if !got.TMVPEnable {
		t.Error("TMVPEnable should retain default true")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/cfg.json"); err == nil {
		t.Error("expected error for missing config file")
	}
}
