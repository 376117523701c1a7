// Package file provides the file-based configuration adapter.
//
// ConfigStore persists settings to ~/.tracklight/config.toml with
// restrictive permissions (the file carries the remote anon key). The
// well-known keys and their mapping onto domain.AppSettings live in
// settings.go; LoadAppSettings applies defaults over whatever the file
// defines.
package file
