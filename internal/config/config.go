package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration. Both binaries load it from the
// same base directory so they resolve the identical shared store path.
type Config struct {
	// SharedDir overrides the shared store directory used by both the
	// main process and the share process. Defaults to <base>/shared.
	SharedDir string `json:"shared_dir,omitempty"`

	// ScreenshotDir is the directory watched for new screenshot files.
	// Defaults to ~/Pictures/Screenshots.
	ScreenshotDir string `json:"screenshot_dir,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// ImageMaxDim bounds the longest edge of imported screenshot images.
	ImageMaxDim int `json:"image_max_dim,omitempty"`

	// ImageJPEGQuality is the JPEG encode quality (1-100) for imported images.
	ImageJPEGQuality int `json:"image_jpeg_quality,omitempty"`

	// NotifyCommand is the command used to deliver local notifications.
	NotifyCommand string `json:"notify_command,omitempty"`

	// ShareGraceMS is the grace delay, in milliseconds, the share process
	// waits after all attachments resolve before exiting.
	ShareGraceMS int `json:"share_grace_ms,omitempty"`

	// ForegroundWindowSecs is how recent the activity heartbeat must be for
	// the app to count as foregrounded (import suppression gate).
	ForegroundWindowSecs int `json:"foreground_window_secs,omitempty"`

	// WebBind is the web UI bind address.
	WebBind string `json:"web_bind,omitempty"`

	// WebPort is the web UI port.
	WebPort int `json:"web_port,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ImageMaxDim:          1024,
		ImageJPEGQuality:     80,
		NotifyCommand:        "notify-send",
		ShareGraceMS:         250,
		ForegroundWindowSecs: 30,
		WebBind:              "127.0.0.1",
		WebPort:              8750,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.stash.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// ResolveSharedDir returns the directory holding the shared store, the
// contract both processes must agree on.
func (c *Config) ResolveSharedDir(baseDir string) string {
	if c.SharedDir != "" {
		return c.SharedDir
	}
	return filepath.Join(baseDir, "shared")
}

// ResolveScreenshotDir returns the watched screenshots directory.
func (c *Config) ResolveScreenshotDir(homeDir string) string {
	if c.ScreenshotDir != "" {
		return c.ScreenshotDir
	}
	return filepath.Join(homeDir, "Pictures", "Screenshots")
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for non-zero scalars; arrays are merged
// and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SharedDir = overlayString(base.SharedDir, overlay.SharedDir)
	result.ScreenshotDir = overlayString(base.ScreenshotDir, overlay.ScreenshotDir)
	result.NotifyCommand = overlayString(base.NotifyCommand, overlay.NotifyCommand)
	result.WebBind = overlayString(base.WebBind, overlay.WebBind)

	result.DBMaxOpenConns = overlayInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = overlayInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)
	result.ImageMaxDim = overlayInt(base.ImageMaxDim, overlay.ImageMaxDim)
	result.ImageJPEGQuality = overlayInt(base.ImageJPEGQuality, overlay.ImageJPEGQuality)
	result.ShareGraceMS = overlayInt(base.ShareGraceMS, overlay.ShareGraceMS)
	result.ForegroundWindowSecs = overlayInt(base.ForegroundWindowSecs, overlay.ForegroundWindowSecs)
	result.WebPort = overlayInt(base.WebPort, overlay.WebPort)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
