package models

// GenerationRequest is the snapshot of a session's selection handed to the
// code-generation collaborator.
type GenerationRequest struct {
	Domain        string `json:"domain"`
	ServiceName   string `json:"service_name"`
	StackName     string `json:"stack_name"`
	ComponentName string `json:"component_name,omitempty"`
	Version       string `json:"version"`
	PromptText    string `json:"prompt"`
}

// GeneratedFile is one named file extracted from a generation response.
type GeneratedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Fixed file records emitted when the response cannot be split or the
// generator is unreachable.
const (
	FallbackFileName    = "output.txt"
	ErrorFileName       = "error.log"
	GenerationErrorText = "// System Error: Code generation module unreachable."
	EmptyResponseText   = "// Error: Module generation failed. Retry."
)
