// Package presets holds built-in response templates and stop rules for
// common chat formats. Template placeholders ({{ .System }}, {{ .Prompt }},
// {{ .Response }}) belong to the packaging tool's template engine and are
// kept verbatim.
package presets

import "sort"

// Preset bundles a response template with the stop strings that end a turn.
type Preset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	Stops       []string `json:"stops"`
	System      string   `json:"system,omitempty"`
}

const llama3Template = `{{ if .System }}<|start_header_id|>system<|end_header_id|>

{{ .System }}<|eot_id|>{{ end }}{{ if .Prompt }}<|start_header_id|>user<|end_header_id|>

{{ .Prompt }}<|eot_id|>{{ end }}<|start_header_id|>assistant<|end_header_id|>

{{ .Response }}<|eot_id|>`

const chatmlTemplate = `{{ if .System }}<|im_start|>system
{{ .System }}<|im_end|>
{{ end }}{{ if .Prompt }}<|im_start|>user
{{ .Prompt }}<|im_end|>
{{ end }}<|im_start|>assistant
{{ .Response }}<|im_end|>`

const alpacaTemplate = `{{ if .System }}{{ .System }}

{{ end }}### Instruction:
{{ .Prompt }}

### Response:
{{ .Response }}`

const mistralTemplate = `[INST] {{ if .System }}{{ .System }}

{{ end }}{{ .Prompt }} [/INST] {{ .Response }}`

const gemmaTemplate = `<start_of_turn>user
{{ if .System }}{{ .System }}

{{ end }}{{ .Prompt }}<end_of_turn>
<start_of_turn>model
{{ .Response }}<end_of_turn>`

var builtin = map[string]Preset{
	"llama3": {
		Name:        "llama3",
		Description: "Llama 3 instruct header/eot format",
		Template:    llama3Template,
		Stops:       []string{"<|start_header_id|>", "<|end_header_id|>", "<|eot_id|>"},
	},
	"chatml": {
		Name:        "chatml",
		Description: "ChatML im_start/im_end format (Qwen, Hermes)",
		Template:    chatmlTemplate,
		Stops:       []string{"<|im_start|>", "<|im_end|>"},
	},
	"alpaca": {
		Name:        "alpaca",
		Description: "Alpaca instruction/response format",
		Template:    alpacaTemplate,
		Stops:       []string{"### Instruction:", "### Response:"},
		System:      "Below is an instruction that describes a task. Write a response that appropriately completes the request.",
	},
	"mistral": {
		Name:        "mistral",
		Description: "Mistral [INST] format",
		Template:    mistralTemplate,
		Stops:       []string{"[INST]", "[/INST]"},
	},
	"gemma": {
		Name:        "gemma",
		Description: "Gemma start_of_turn/end_of_turn format",
		Template:    gemmaTemplate,
		Stops:       []string{"<start_of_turn>", "<end_of_turn>"},
	},
}

// Lookup returns the named preset. The returned Stops slice is a copy.
func Lookup(name string) (Preset, bool) {
	p, ok := builtin[name]
	if !ok {
		return Preset{}, false
	}
	p.Stops = append([]string(nil), p.Stops...)
	return p, true
}

// Names returns the preset names in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// All returns every preset sorted by name.
func All() []Preset {
	names := Names()
	out := make([]Preset, 0, len(names))
	for _, n := range names {
		p, _ := Lookup(n)
		out = append(out, p)
	}
	return out
}
