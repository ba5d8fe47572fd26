package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ImageMaxDim != 1024 {
		t.Errorf("ImageMaxDim = %d, want 1024", cfg.ImageMaxDim)
	}
	if cfg.ImageJPEGQuality != 80 {
		t.Errorf("ImageJPEGQuality = %d, want 80", cfg.ImageJPEGQuality)
	}
	if cfg.NotifyCommand != "notify-send" {
		t.Errorf("NotifyCommand = %q, want notify-send", cfg.NotifyCommand)
	}
	if cfg.ForegroundWindowSecs != 30 {
		t.Errorf("ForegroundWindowSecs = %d, want 30", cfg.ForegroundWindowSecs)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{"shared_dir": "/tmp/stash-shared", "image_max_dim": 512, "disabled_tools": ["item_delete"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SharedDir != "/tmp/stash-shared" {
		t.Errorf("SharedDir = %q", cfg.SharedDir)
	}
	if cfg.ImageMaxDim != 512 {
		t.Errorf("ImageMaxDim = %d, want 512", cfg.ImageMaxDim)
	}
	// Unset values still fall back to defaults
	if cfg.ImageJPEGQuality != 80 {
		t.Errorf("ImageJPEGQuality = %d, want default 80", cfg.ImageJPEGQuality)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "item_delete" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestResolveSharedDir(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolveSharedDir("/home/u/.stash"); got != filepath.Join("/home/u/.stash", "shared") {
		t.Errorf("ResolveSharedDir = %q", got)
	}

	cfg.SharedDir = "/mnt/group/stash"
	if got := cfg.ResolveSharedDir("/home/u/.stash"); got != "/mnt/group/stash" {
		t.Errorf("ResolveSharedDir override = %q", got)
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"item_delete", "item_move"}}
	overlay := &Config{DisabledTools: []string{"item_move", " bucket_rename "}}

	merged := Merge(base, overlay)
	want := []string{"item_delete", "item_move", "bucket_rename"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i := range want {
		if merged.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], want[i])
		}
	}
}
