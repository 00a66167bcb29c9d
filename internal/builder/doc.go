// Package builder turns manifest requests into rendered and written
// Modelfiles. It is structured into small files by concern:
//
//   - builder.go: Builder type, Config and constructor, simple getters.
//   - build.go: request resolution (source, preset, overrides) into a manifest.
//   - errors.go: error types and helpers (IsModelNotFound, IsInvalidRequest).
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - status.go: counters and Status reporting.
//
// A Builder is safe for concurrent use: each request assembles its own
// manifest and shared counters are guarded by a mutex. Writes to the same
// destination path are not serialized here.
package builder
