package types

// Model represents a quantized model artifact discovered on disk.
type Model struct {
	// Stable identifier for the model (the file name).
	// example: llama-3-8b-q4_k_m.gguf
	ID string `json:"id" example:"llama-3-8b-q4_k_m.gguf"`
	// Human-friendly name.
	// example: llama-3-8b-q4_k_m
	Name string `json:"name" example:"llama-3-8b-q4_k_m"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/llama-3-8b-q4_k_m.gguf
	Path string `json:"path" example:"/home/user/models/llama-3-8b-q4_k_m.gguf"`
	// Quantization (GGUF file type) when the header could be read.
	// example: Q4_K_M
	Quant string `json:"quant" example:"Q4_K_M"`
	// Architecture read from the GGUF header (e.g., llama, qwen2, gemma).
	// example: llama
	Family string `json:"family,omitempty" example:"llama"`
	// Parameter count as reported by the GGUF header.
	// example: 8.03 B
	Parameters string `json:"parameters,omitempty" example:"8.03 B"`
	// File size in bytes.
	// example: 4920734048
	SizeBytes int64 `json:"size_bytes" example:"4920734048"`
}
