package types

// Model represents an entry in the static model catalog.
type Model struct {
	// Stable identifier for the model.
	// example: tinyllama-q4
	ID string `json:"id" yaml:"id" toml:"id" example:"tinyllama-q4"`
	// Human-friendly name.
	// example: TinyLlama (Q4)
	Name string `json:"name" yaml:"name" toml:"name" example:"TinyLlama (Q4)"`
	// Path to the weights on disk (llama backend) or the remote model name (genai backend).
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Path string `json:"path,omitempty" yaml:"path" toml:"path" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Quantization level or variant string.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" yaml:"quant" toml:"quant" example:"Q4_K_M"`
	// Optional family (e.g., llama, mistral, phi).
	// example: llama
	Family string `json:"family,omitempty" yaml:"family" toml:"family" example:"llama"`
}
