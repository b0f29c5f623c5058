package inference

import "encoding/json"

// Schema type constants, matching the Gemini schema vocabulary.
const (
	TypeString = "STRING"
	TypeNumber = "NUMBER"
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
)

// Schema is a provider-neutral output-shape constraint. The Gemini provider
// converts it to a native response schema; the OpenAI provider renders it
// into the prompt.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Describe renders the schema as compact JSON for providers that can only
// honor shape constraints through the prompt.
func (s *Schema) Describe() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
