// Package config loads AntiHook's runtime settings from an optional
// settings.yaml file and ANTIHOOK_* environment variables. It covers the
// environment, log level, health probe timeout, bridge address and an
// optional server URL override. The persisted server URL itself lives in
// internal/configstore.
package config
