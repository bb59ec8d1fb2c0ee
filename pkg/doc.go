// Package pkg provides shared utilities for the softsave save-media stack.
//
// This package contains common functionality used across the coordination
// layer and the media backends, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for save-media failures
//   - Component identifiers for log filtering
//   - Status codes for backend and wire-protocol replies
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with save-stack context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentAccess, "session opened", "media", info.MediaType)
//
// # Errors
//
// Save-media errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrMediaInUse) {
//	    // Another session holds the media; retry later
//	}
package pkg
