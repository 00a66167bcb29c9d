package types

// ManifestRequest describes a manifest to assemble.
type ManifestRequest struct {
	// Registry model id. Ignored when ModelPath is set.
	// example: llama-3-8b-q4_k_m.gguf
	Model string `json:"model,omitempty" yaml:"model" toml:"model" example:"llama-3-8b-q4_k_m.gguf"`
	// Explicit path to the quantized model artifact.
	// example: ./model/unsloth.Q8_0.gguf
	ModelPath string `json:"model_path,omitempty" yaml:"model_path" toml:"model_path" example:"./model/unsloth.Q8_0.gguf"`
	// Optional LoRA adapter path emitted as ADAPTER.
	Adapter string `json:"adapter,omitempty" yaml:"adapter" toml:"adapter"`
	// Preset supplying the default template and stop strings.
	// example: llama3
	Preset string `json:"preset,omitempty" yaml:"preset" toml:"preset" example:"llama3"`
	// Response template; replaces the preset template when set.
	Template string `json:"template,omitempty" yaml:"template" toml:"template"`
	// Stop strings in the order the packaging tool applies them; replace preset stops when non-empty.
	// example: ["<|eot_id|>"]
	Stops []string `json:"stops,omitempty" yaml:"stops" toml:"stops"`
	// System instruction; replaces the preset system instruction when set.
	// example: Be terse.
	System string `json:"system,omitempty" yaml:"system" toml:"system" example:"Be terse."`
	// Additional PARAMETER lines (e.g., temperature, num_ctx).
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters" toml:"parameters"`
	// License text emitted as LICENSE.
	License string `json:"license,omitempty" yaml:"license" toml:"license"`
	// Output path for write requests, relative to the server output root.
	// example: llama3-ft/Modelfile
	Output string `json:"output,omitempty" yaml:"output" toml:"output" example:"llama3-ft/Modelfile"`
}

// WriteResponse is returned by POST /manifests.
type WriteResponse struct {
	// Absolute path of the written manifest.
	Path string `json:"path"`
	// Number of bytes written.
	// example: 412
	Bytes int `json:"bytes" example:"412"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Number of models in the registry.
	// example: 3
	Models int `json:"models" example:"3"`
	// Total manifests rendered (including those later written).
	// example: 12
	RendersTotal uint64 `json:"renders_total" example:"12"`
	// Total manifests written to disk.
	// example: 4
	WritesTotal uint64 `json:"writes_total" example:"4"`
	// Total failed render or write attempts.
	// example: 1
	FailuresTotal uint64 `json:"failures_total" example:"1"`
	// Last error observed by the builder (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
