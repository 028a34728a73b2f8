package catalog

// StackType classifies a stack in the stack dropdown.
type StackType string

const (
	StackTypeCore        StackType = "core"
	StackTypeStack       StackType = "stack"
	StackTypeInfra       StackType = "infra"
	StackTypeMobile      StackType = "mobile"
	StackTypeData        StackType = "data"
	StackTypeSpecialized StackType = "specialized"
)

// Domain is a top-level category of service archetypes
type Domain struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Icon        string `json:"icon" yaml:"icon" toml:"icon"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// Service is a microservice archetype offered for generation within a domain
type Service struct {
	ID             string `json:"id" yaml:"id" toml:"id"`
	Name           string `json:"name" yaml:"name" toml:"name"`
	Category       string `json:"category" yaml:"category" toml:"category"`
	Description    string `json:"description" yaml:"description" toml:"description"`
	SuggestedStack string `json:"suggested_stack,omitempty" yaml:"suggested_stack,omitempty" toml:"suggested_stack"`
}

// Stack is a technology bundle with optional core languages, selectable
// components and version labels.
type Stack struct {
	ID             string    `json:"id" yaml:"id" toml:"id"`
	Name           string    `json:"name" yaml:"name" toml:"name"`
	Type           StackType `json:"type" yaml:"type" toml:"type"`
	CoreLanguages  []string  `json:"core_languages,omitempty" yaml:"core_languages,omitempty" toml:"core_languages"`
	Components     []string  `json:"components,omitempty" yaml:"components,omitempty" toml:"components"`
	Versions       []string  `json:"versions" yaml:"versions" toml:"versions"`
	DefaultVersion string    `json:"default_version" yaml:"default_version" toml:"default_version"`
}

// HasVersion reports whether v is one of the stack's version labels.
func (s Stack) HasVersion(v string) bool {
	return contains(s.Versions, v)
}

// HasComponent reports whether c is one of the stack's components.
func (s Stack) HasComponent(c string) bool {
	return contains(s.Components, c)
}

// HasCoreLanguage reports whether l is one of the stack's core languages.
func (s Stack) HasCoreLanguage(l string) bool {
	return contains(s.CoreLanguages, l)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
