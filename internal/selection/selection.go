package selection

import (
	"fmt"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
)

// Step is a position in the cascading selection chain. Setting a step
// clears every step after it.
type Step int

const (
	StepService Step = iota + 1
	StepStack
	StepCoreLanguage
	StepComponent
	StepVersion
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "service"
	case StepStack:
		return "stack"
	case StepCoreLanguage:
		return "core_language"
	case StepComponent:
		return "component"
	case StepVersion:
		return "version"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Selection is the cascading configuration of one session.
type Selection struct {
	Domain       string           `json:"domain"`
	Service      *catalog.Service `json:"service,omitempty"`
	Stack        *catalog.Stack   `json:"stack,omitempty"`
	CoreLanguage string           `json:"core_language"`
	Component    string           `json:"component"`
	Version      string           `json:"version"`
	Prompt       string           `json:"prompt"`
}

// clone returns a deep copy so callers never alias machine state.
func (s Selection) clone() Selection {
	out := s
	if s.Service != nil {
		svc := *s.Service
		out.Service = &svc
	}
	if s.Stack != nil {
		stack := *s.Stack
		stack.CoreLanguages = append([]string(nil), s.Stack.CoreLanguages...)
		stack.Components = append([]string(nil), s.Stack.Components...)
		stack.Versions = append([]string(nil), s.Stack.Versions...)
		out.Stack = &stack
	}
	return out
}

// clearFrom empties step and every step after it.
func (s *Selection) clearFrom(step Step) {
	if step <= StepService {
		s.Service = nil
	}
	if step <= StepStack {
		s.Stack = nil
	}
	if step <= StepCoreLanguage {
		s.CoreLanguage = ""
	}
	if step <= StepComponent {
		s.Component = ""
	}
	if step <= StepVersion {
		s.Version = ""
	}
}

// DefaultPrompt is the free-text constraint seeded when a service is picked.
func DefaultPrompt(serviceName string) string {
	return fmt.Sprintf("Generate the %s microservice. \n\nRequirements:\n"+
		"- Production-ready implementation\n"+
		"- Include extensive JavaDocs/Comments\n"+
		"- Follow Enterprise Design Patterns", serviceName)
}
