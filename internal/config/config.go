/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied after the file is merged.
// The gallery API key is never written to the file; it lives in the OS keyring.
type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Gallery       GalleryConfig   `yaml:"gallery"`
	Editor        EditorConfig    `yaml:"editor"`
	Storage       StorageConfig   `yaml:"storage"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
	Logging       LoggingConfig   `yaml:"logging"`
}

type GalleryConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
	ItemCap   int    `yaml:"item_cap"`
}

type EditorConfig struct {
	DefaultManifest   string  `yaml:"default_manifest"`
	DefaultBackground string  `yaml:"default_background"`
	OverlayOpacity    float64 `yaml:"overlay_opacity"`
	SnapThreshold     float64 `yaml:"snap_threshold"`
	MaxZoom           float64 `yaml:"max_zoom"`
}

type StorageConfig struct {
	DraftsPath string `yaml:"drafts_path"`
}

type TelemetryConfig struct {
	OptIn     bool   `yaml:"opt_in"`
	EventsURL string `yaml:"events_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Gallery:       GalleryConfig{Endpoint: "http://localhost:54321/functions/v1/get-templates", TimeoutMs: 10000, ItemCap: 100},
		Editor: EditorConfig{
			DefaultManifest:   "impact",
			DefaultBackground: "https://images.unsplash.com/photo-1492684223066-81342ee5ff30",
			OverlayOpacity:    0.2,
			SnapThreshold:     5,
			MaxZoom:           3,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvGalleryURL       = "INV_GALLERY_URL"
	EnvGalleryTimeoutMs = "INV_GALLERY_TIMEOUT_MS"
	EnvGalleryCap       = "INV_GALLERY_CAP"
	EnvGalleryAPIKey    = "INV_GALLERY_API_KEY"
	EnvMaxZoom          = "INV_MAX_ZOOM"
	EnvDraftsPath       = "INV_DRAFTS_PATH"
	EnvTelemetryOptIn   = "INV_TELEMETRY_OPT_IN"
	EnvTelemetryURL     = "INV_TELEMETRY_URL"
	EnvConfigFile       = "INV_CONFIG"
	EnvLogLevel         = "INV_LOG_LEVEL"
	EnvLogFormat        = "INV_LOG_FORMAT"
	EnvLogSource        = "INV_LOG_SOURCE"
	EnvLogFile          = "INV_LOG_FILE"
)

const (
	keyringService = "invitecanvas"
	keyringAPIKey  = "gallery_api_key"
)

// SecretStore abstracts the OS keyring so tests can swap it.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

var secrets SecretStore = osKeyring{}

// ConfigPath returns the per-user config file path. INV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "InviteCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "InviteCanvas")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "invitecanvas")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file (if present), applies defaults and environment
// overrides, and returns the gallery API key separately. A missing keyring
// entry is not an error.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)

	key := strings.TrimSpace(os.Getenv(EnvGalleryAPIKey))
	if key == "" {
		if v, err := secrets.Get(keyringService, keyringAPIKey); err == nil {
			key = v
		} else if !errors.Is(err, keyring.ErrNotFound) {
			return cfg, "", fmt.Errorf("read api key: %w", err)
		}
	}
	return cfg, key, nil
}

// Save writes the YAML file and stores apiKey in the keyring when non-empty.
func Save(cfg AppConfig, apiKey string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if apiKey != "" {
		if err := secrets.Set(keyringService, keyringAPIKey, apiKey); err != nil {
			return fmt.Errorf("store api key: %w", err)
		}
	}
	return nil
}

// ForgetAPIKey removes the stored gallery key.
func ForgetAPIKey() error {
	err := secrets.Delete(keyringService, keyringAPIKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Gallery.Endpoint); v != "" {
		dst.Gallery.Endpoint = v
	}
	if src.Gallery.TimeoutMs > 0 {
		dst.Gallery.TimeoutMs = src.Gallery.TimeoutMs
	}
	if src.Gallery.ItemCap > 0 {
		dst.Gallery.ItemCap = src.Gallery.ItemCap
	}
	if v := strings.TrimSpace(src.Editor.DefaultManifest); v != "" {
		dst.Editor.DefaultManifest = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Editor.DefaultBackground); v != "" {
		dst.Editor.DefaultBackground = v
	}
	if src.Editor.OverlayOpacity > 0 && src.Editor.OverlayOpacity <= 1 {
		dst.Editor.OverlayOpacity = src.Editor.OverlayOpacity
	}
	if src.Editor.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if src.Editor.MaxZoom >= 1 {
		dst.Editor.MaxZoom = src.Editor.MaxZoom
	}
	if v := strings.TrimSpace(src.Storage.DraftsPath); v != "" {
		dst.Storage.DraftsPath = v
	}
	dst.Telemetry.OptIn = src.Telemetry.OptIn
	if v := strings.TrimSpace(src.Telemetry.EventsURL); v != "" {
		dst.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := env(EnvGalleryURL); v != "" {
		cfg.Gallery.Endpoint = v
	}
	if n, ok := envInt(EnvGalleryTimeoutMs); ok && n > 0 {
		cfg.Gallery.TimeoutMs = n
	}
	if n, ok := envInt(EnvGalleryCap); ok && n > 0 {
		cfg.Gallery.ItemCap = n
	}
	if v := env(EnvMaxZoom); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 {
			cfg.Editor.MaxZoom = f
		}
	}
	if v := env(EnvDraftsPath); v != "" {
		cfg.Storage.DraftsPath = v
	}
	if v := env(EnvTelemetryOptIn); v != "" {
		cfg.Telemetry.OptIn = parseBool(v)
	}
	if v := env(EnvTelemetryURL); v != "" {
		cfg.Telemetry.EventsURL = v
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := env(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := env(EnvLogSource); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := env(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func envInt(key string) (int, bool) {
	v := env(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Timeout returns the gallery request timeout, falling back to the default.
func (g GalleryConfig) Timeout() time.Duration {
	if g.TimeoutMs <= 0 {
		return time.Duration(Defaults().Gallery.TimeoutMs) * time.Millisecond
	}
	return time.Duration(g.TimeoutMs) * time.Millisecond
}
