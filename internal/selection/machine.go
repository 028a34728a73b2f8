package selection

import (
	"errors"
	"fmt"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

var (
	// ErrStepLocked is returned when a step is set before the step it depends on.
	ErrStepLocked = errors.New("selection step is locked")
	// ErrInvalidOption is returned when a value is not offered at the current step.
	ErrInvalidOption = errors.New("option not offered")
	// ErrNotReady is returned when a request is built without a service and stack.
	ErrNotReady = errors.New("service and stack must be selected")
)

// Machine owns a Selection and the transitions between its ordered steps.
// Fields are only ever changed through the Select methods.
type Machine struct {
	provider   catalog.Provider
	sel        Selection
	candidates []catalog.Service
}

// NewMachine creates a machine with an empty selection and no domain.
func NewMachine(provider catalog.Provider) *Machine {
	return &Machine{provider: provider}
}

// Selection returns a copy of the current selection.
func (m *Machine) Selection() Selection {
	return m.sel.clone()
}

// Candidates returns the services offered for the current domain.
func (m *Machine) Candidates() []catalog.Service {
	out := make([]catalog.Service, len(m.candidates))
	copy(out, m.candidates)
	return out
}

// Search filters the candidate services by name.
func (m *Machine) Search(query string) []catalog.Service {
	return catalog.FilterServices(m.candidates, query)
}

// SelectDomain resets the whole selection and loads the domain's services.
// An unknown domain leaves the candidate list empty.
func (m *Machine) SelectDomain(domainID string) {
	m.sel = Selection{Domain: domainID}
	m.candidates = m.provider.Services(domainID)
}

// SelectService sets the service, clears every later step and seeds the
// prompt. When the service suggests a stack the catalog knows, the stack is
// selected too; an unknown suggestion is skipped.
func (m *Machine) SelectService(service catalog.Service) {
	m.sel.clearFrom(StepService)
	svc := service
	m.sel.Service = &svc
	m.sel.Prompt = DefaultPrompt(service.Name)

	if service.SuggestedStack == "" {
		return
	}
	if stack, ok := m.provider.Stack(service.SuggestedStack); ok {
		m.selectStack(stack)
	}
}

// SelectServiceByID selects a candidate service of the current domain by
// ID or exact name.
func (m *Machine) SelectServiceByID(idOrName string) error {
	for _, s := range m.candidates {
		if s.ID == idOrName || s.Name == idOrName {
			m.SelectService(s)
			return nil
		}
	}
	return fmt.Errorf("%w: service %q", ErrInvalidOption, idOrName)
}

// SelectStack sets the stack. A stack with exactly one core language
// selects it; the version starts at the stack default once a core
// language is known. Stacks with several core languages leave version
// empty until SelectCoreLanguage.
func (m *Machine) SelectStack(stack catalog.Stack) error {
	if m.sel.Service == nil {
		return fmt.Errorf("%w: %s requires %s", ErrStepLocked, StepStack, StepService)
	}
	m.selectStack(stack)
	return nil
}

// SelectStackByID resolves a stack identifier and selects it.
func (m *Machine) SelectStackByID(id string) error {
	stack, ok := m.provider.Stack(id)
	if !ok {
		return fmt.Errorf("%w: stack %q", ErrInvalidOption, id)
	}
	return m.SelectStack(stack)
}

func (m *Machine) selectStack(stack catalog.Stack) {
	m.sel.clearFrom(StepStack)
	st := stack
	m.sel.Stack = &st
	if len(stack.CoreLanguages) == 1 {
		m.sel.CoreLanguage = stack.CoreLanguages[0]
		m.sel.Version = stack.DefaultVersion
	}
}

// SelectCoreLanguage sets the core language and clears the component.
func (m *Machine) SelectCoreLanguage(name string) error {
	if m.sel.Stack == nil {
		return fmt.Errorf("%w: %s requires %s", ErrStepLocked, StepCoreLanguage, StepStack)
	}
	if !m.sel.Stack.HasCoreLanguage(name) {
		return fmt.Errorf("%w: core language %q", ErrInvalidOption, name)
	}
	m.sel.CoreLanguage = name
	m.sel.Component = ""
	if m.sel.Version == "" {
		m.sel.Version = m.sel.Stack.DefaultVersion
	}
	return nil
}

// SelectComponent sets the component. The version is left as is.
func (m *Machine) SelectComponent(name string) error {
	if m.sel.CoreLanguage == "" {
		return fmt.Errorf("%w: %s requires %s", ErrStepLocked, StepComponent, StepCoreLanguage)
	}
	if !m.sel.Stack.HasComponent(name) {
		return fmt.Errorf("%w: component %q", ErrInvalidOption, name)
	}
	m.sel.Component = name
	return nil
}

// SelectVersion sets the version.
func (m *Machine) SelectVersion(name string) error {
	if m.sel.CoreLanguage == "" {
		return fmt.Errorf("%w: %s requires %s", ErrStepLocked, StepVersion, StepCoreLanguage)
	}
	if !m.sel.Stack.HasVersion(name) {
		return fmt.Errorf("%w: version %q", ErrInvalidOption, name)
	}
	m.sel.Version = name
	return nil
}

// SetPrompt replaces the free-text constraints.
func (m *Machine) SetPrompt(text string) {
	m.sel.Prompt = text
}

// IsReadyToGenerate reports whether a service and a stack are selected.
func (m *Machine) IsReadyToGenerate() bool {
	return m.sel.Service != nil && m.sel.Stack != nil
}

// CoreOptions lists the core languages offered by the current stack.
func (m *Machine) CoreOptions() []string {
	if m.sel.Stack == nil {
		return []string{}
	}
	return append([]string{}, m.sel.Stack.CoreLanguages...)
}

// ComponentOptions lists the components offered by the current stack.
func (m *Machine) ComponentOptions() []string {
	if m.sel.Stack == nil {
		return []string{}
	}
	return append([]string{}, m.sel.Stack.Components...)
}

// VersionOptions lists the versions offered by the current stack.
func (m *Machine) VersionOptions() []string {
	if m.sel.Stack == nil {
		return []string{}
	}
	return append([]string{}, m.sel.Stack.Versions...)
}

// Request snapshots the selection for the generation collaborator.
func (m *Machine) Request() (models.GenerationRequest, error) {
	if !m.IsReadyToGenerate() {
		return models.GenerationRequest{}, ErrNotReady
	}
	return models.GenerationRequest{
		Domain:        m.sel.Domain,
		ServiceName:   m.sel.Service.Name,
		StackName:     m.sel.Stack.Name,
		ComponentName: m.sel.Component,
		Version:       m.sel.Version,
		PromptText:    m.sel.Prompt,
	}, nil
}
