// Package commands implements the antihook CLI.
//
//	antihook config path          print the configuration file path
//	antihook config show          print the saved configuration as JSON
//	antihook config set [url]     validate and save the server URL
//	antihook health [url]         probe the AntiHub health endpoint
//	antihook serve                run the loopback bridge for the desktop shell
//
// Runtime settings come from settings.yaml and ANTIHOOK_* variables (see
// package config). The server URL for health defaults to ANTIHOOK_SERVER_URL,
// then the saved configuration.
package commands
