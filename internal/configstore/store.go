package configstore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/antihub/antihook/internal/baseurl"
)

const (
	dirName  = "antihook"
	fileName = "config.json"
	tmpExt   = ".tmp"
)

// Configuration is the persisted AntiHook configuration.
type Configuration struct {
	ServerURL string `json:"server_url"`
}

// fileConfig is the on-disk shape. Launchers before the shell wrote the
// same value under kiro_server_url.
type fileConfig struct {
	ServerURL       string `json:"server_url"`
	LegacyServerURL string `json:"kiro_server_url,omitempty"`
}

// HomeDirFunc resolves the current user's home directory.
type HomeDirFunc func() (string, error)

// Store loads and saves the configuration file.
type Store struct {
	fs      afero.Fs
	homeDir HomeDirFunc
	logger  *slog.Logger
}

// New creates a Store. A nil fs uses the OS filesystem, a nil homeDir uses
// os.UserHomeDir and a nil logger discards output.
func New(fs afero.Fs, homeDir HomeDirFunc, logger *slog.Logger) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		fs:      fs,
		homeDir: homeDir,
		logger:  logger,
	}
}

// Path returns {home}/.config/antihook/config.json.
func (s *Store) Path() (string, error) {
	home, err := s.homeDir()
	if err != nil {
		return "", wrap(KindMissingHomeDir, err)
	}
	if home == "" {
		return "", wrap(KindMissingHomeDir, ErrMissingHomeDir)
	}

	return filepath.Join(home, ".config", dirName, fileName), nil
}

// Load reads the saved configuration. It returns nil and no error when the
// file does not exist. A file that exists but does not parse is an error.
func (s *Store) Load() (*Configuration, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(KindIO, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, wrap(KindJSON, err)
	}

	cfg := &Configuration{ServerURL: fc.ServerURL}
	if cfg.ServerURL == "" && fc.LegacyServerURL != "" {
		s.logger.Debug("using legacy kiro_server_url field", slog.String("path", path))
		cfg.ServerURL = fc.LegacyServerURL
	}

	return cfg, nil
}

// Save normalizes raw and atomically replaces the configuration file with
// it. Invalid input is rejected before anything touches the disk. The
// normalized URL is returned.
func (s *Store) Save(raw string) (string, error) {
	normalized, err := baseurl.Normalize(raw)
	if err != nil {
		return "", wrap(KindInvalidURL, err)
	}

	path, err := s.Path()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(Configuration{ServerURL: normalized}, "", "  ")
	if err != nil {
		return "", wrap(KindJSON, err)
	}
	data = append(data, '\n')

	if err := s.writeFile(path, data); err != nil {
		return "", wrap(KindIO, err)
	}

	s.logger.Info("configuration saved",
		slog.String("path", path),
		slog.String("server_url", normalized))

	return normalized, nil
}

// Resolve returns the server URL a launcher should use. A non-blank
// override wins over the saved configuration.
func (s *Store) Resolve(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		normalized, err := baseurl.Normalize(override)
		if err != nil {
			return "", wrap(KindInvalidURL, err)
		}
		return normalized, nil
	}

	cfg, err := s.Load()
	if err != nil {
		return "", err
	}
	if cfg == nil || strings.TrimSpace(cfg.ServerURL) == "" {
		return "", ErrNotConfigured
	}

	normalized, err := baseurl.Normalize(cfg.ServerURL)
	if err != nil {
		return "", wrap(KindInvalidURL, err)
	}

	return normalized, nil
}

// writeFile writes data to path+".tmp" and renames it onto path. The rename
// is the only step that makes new content visible.
func (s *Store) writeFile(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + tmpExt
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}

	return nil
}
