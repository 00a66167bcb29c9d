// Package manifest assembles Modelfile deployment manifests from typed
// directives. It is structured into small files by concern:
//
//   - kind.go: directive kinds and their Modelfile keywords.
//   - manifest.go: Manifest type, Add/AddParameter and Render.
//   - write.go: atomic Write to a destination path.
//   - parse.go: reader for existing Modelfiles.
//   - errors.go: ConfigError, IOError, ParseError and predicates.
//
// A Manifest is not safe for concurrent use. Callers writing the same path
// from several goroutines must serialize those calls themselves.
package manifest
