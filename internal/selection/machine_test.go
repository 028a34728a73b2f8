package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Definition{
		Domains: []catalog.Domain{{ID: "lab", Name: "Lab"}},
		Stacks: []catalog.Stack{
			{
				ID: "single", Name: "Single Core", Type: catalog.StackTypeCore,
				CoreLanguages: []string{"Go"},
				Components:    []string{"Gin", "Echo"},
				Versions:      []string{"1.22", "1.21"}, DefaultVersion: "1.22",
			},
			{
				ID: "bare", Name: "No Core", Type: catalog.StackTypeInfra,
				Components: []string{"Shell"},
				Versions:   []string{"5.2"}, DefaultVersion: "5.2",
			},
			{
				ID: "poly", Name: "Polyglot", Type: catalog.StackTypeSpecialized,
				CoreLanguages: []string{"Kotlin", "Java"},
				Components:    []string{"Ktor"},
				Versions:      []string{"2.0", "1.9"}, DefaultVersion: "2.0",
			},
		},
		Services: map[string][]catalog.Service{
			"lab": {
				{Name: "Suggests Single", SuggestedStack: "single"},
				{Name: "Suggests Missing", SuggestedStack: "cobol"},
				{Name: "No Suggestion"},
				{Name: "Suggests Poly", SuggestedStack: "poly"},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func assertConsistent(t *testing.T, sel Selection) {
	t.Helper()
	if sel.Service == nil {
		assert.Nil(t, sel.Stack)
	}
	if sel.Stack == nil {
		assert.Empty(t, sel.CoreLanguage)
	}
	if sel.CoreLanguage == "" {
		assert.Empty(t, sel.Component)
		assert.Empty(t, sel.Version)
	}
}

func TestMachine_SelectDomain(t *testing.T) {
	c := testCatalog(t)
	m := NewMachine(c)

	m.SelectDomain("lab")
	require.NoError(t, m.SelectServiceByID("Suggests Single"))
	require.NoError(t, m.SelectComponent("Gin"))

	m.SelectDomain("lab")
	sel := m.Selection()
	assert.Equal(t, "lab", sel.Domain)
	assert.Nil(t, sel.Service)
	assert.Nil(t, sel.Stack)
	assert.Empty(t, sel.CoreLanguage)
	assert.Empty(t, sel.Component)
	assert.Empty(t, sel.Version)
	assert.Empty(t, sel.Prompt)
	assert.Len(t, m.Candidates(), 4)

	t.Run("unknown domain yields no candidates", func(t *testing.T) {
		m.SelectDomain("nowhere")
		assert.Empty(t, m.Candidates())
		assert.Equal(t, "nowhere", m.Selection().Domain)
	})
}

func TestMachine_SelectService(t *testing.T) {
	c := testCatalog(t)

	t.Run("valid suggestion cascades into stack", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("lab-0"))

		sel := m.Selection()
		require.NotNil(t, sel.Stack)
		assert.Equal(t, "single", sel.Stack.ID)
		assert.Equal(t, "1.22", sel.Version)
		assert.Equal(t, "Go", sel.CoreLanguage)
		assert.Empty(t, sel.Component)
		assert.Equal(t, DefaultPrompt("Suggests Single"), sel.Prompt)
		assertConsistent(t, sel)
	})

	t.Run("unknown suggestion is skipped", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("Suggests Missing"))

		sel := m.Selection()
		require.NotNil(t, sel.Service)
		assert.Nil(t, sel.Stack)
		assertConsistent(t, sel)
	})

	t.Run("no suggestion leaves stack empty", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("Suggests Single"))
		require.NoError(t, m.SelectServiceByID("No Suggestion"))

		sel := m.Selection()
		assert.Equal(t, "No Suggestion", sel.Service.Name)
		assert.Nil(t, sel.Stack)
		assertConsistent(t, sel)
	})

	t.Run("prompt is reseeded", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("No Suggestion"))
		m.SetPrompt("custom")
		require.NoError(t, m.SelectServiceByID("Suggests Single"))
		assert.Equal(t, DefaultPrompt("Suggests Single"), m.Selection().Prompt)
	})

	t.Run("service outside the domain is rejected", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		err := m.SelectServiceByID("Payment Processing Gateway")
		assert.ErrorIs(t, err, ErrInvalidOption)
		assert.Nil(t, m.Selection().Service)
	})
}

func TestMachine_SelectStack(t *testing.T) {
	c := testCatalog(t)
	single, _ := c.Stack("single")
	bare, _ := c.Stack("bare")
	poly, _ := c.Stack("poly")

	t.Run("locked without service", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		assert.ErrorIs(t, m.SelectStack(single), ErrStepLocked)
		assert.Nil(t, m.Selection().Stack)
	})

	t.Run("single core language auto populates", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("No Suggestion"))
		require.NoError(t, m.SelectStack(single))

		sel := m.Selection()
		assert.Equal(t, "Go", sel.CoreLanguage)
		assert.Equal(t, "1.22", sel.Version)
	})

	t.Run("no core language stays empty", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("No Suggestion"))
		require.NoError(t, m.SelectStack(bare))

		sel := m.Selection()
		assert.Empty(t, sel.CoreLanguage)
		assert.Empty(t, sel.Version)
		assert.Empty(t, m.CoreOptions())
		assert.ErrorIs(t, m.SelectComponent("Shell"), ErrStepLocked)
		assertConsistent(t, sel)
	})

	t.Run("several core languages require a choice", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("Suggests Poly"))

		sel := m.Selection()
		assert.Equal(t, "poly", sel.Stack.ID)
		assert.Empty(t, sel.CoreLanguage)
		assert.Equal(t, []string{"Kotlin", "Java"}, m.CoreOptions())

		require.NoError(t, m.SelectCoreLanguage("Java"))
		sel = m.Selection()
		assert.Equal(t, "Java", sel.CoreLanguage)
		assert.Equal(t, "2.0", sel.Version)
		assertConsistent(t, sel)
	})

	t.Run("component is always cleared", func(t *testing.T) {
		for _, next := range []catalog.Stack{single, bare, poly} {
			m := NewMachine(c)
			m.SelectDomain("lab")
			require.NoError(t, m.SelectServiceByID("Suggests Single"))
			require.NoError(t, m.SelectComponent("Echo"))
			require.NoError(t, m.SelectVersion("1.21"))

			require.NoError(t, m.SelectStack(next))
			sel := m.Selection()
			assert.Empty(t, sel.Component, next.ID)
			assertConsistent(t, sel)
		}
	})

	t.Run("unknown stack id", func(t *testing.T) {
		m := NewMachine(c)
		m.SelectDomain("lab")
		require.NoError(t, m.SelectServiceByID("No Suggestion"))
		assert.ErrorIs(t, m.SelectStackByID("cobol"), ErrInvalidOption)
	})
}

func TestMachine_LaterSteps(t *testing.T) {
	c := testCatalog(t)
	m := NewMachine(c)
	m.SelectDomain("lab")

	assert.ErrorIs(t, m.SelectCoreLanguage("Go"), ErrStepLocked)
	assert.ErrorIs(t, m.SelectComponent("Gin"), ErrStepLocked)
	assert.ErrorIs(t, m.SelectVersion("1.22"), ErrStepLocked)

	require.NoError(t, m.SelectServiceByID("Suggests Single"))

	t.Run("core language clears component", func(t *testing.T) {
		require.NoError(t, m.SelectComponent("Gin"))
		require.NoError(t, m.SelectCoreLanguage("Go"))
		assert.Empty(t, m.Selection().Component)
	})

	t.Run("component leaves version", func(t *testing.T) {
		require.NoError(t, m.SelectVersion("1.21"))
		require.NoError(t, m.SelectComponent("Echo"))
		sel := m.Selection()
		assert.Equal(t, "Echo", sel.Component)
		assert.Equal(t, "1.21", sel.Version)
	})

	t.Run("options are validated", func(t *testing.T) {
		assert.ErrorIs(t, m.SelectCoreLanguage("Rust"), ErrInvalidOption)
		assert.ErrorIs(t, m.SelectComponent("Fiber"), ErrInvalidOption)
		assert.ErrorIs(t, m.SelectVersion("0.1"), ErrInvalidOption)
		sel := m.Selection()
		assert.Equal(t, "Echo", sel.Component)
		assert.Equal(t, "1.21", sel.Version)
	})
}

func TestMachine_Request(t *testing.T) {
	c := testCatalog(t)
	m := NewMachine(c)
	m.SelectDomain("lab")

	_, err := m.Request()
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, m.IsReadyToGenerate())

	require.NoError(t, m.SelectServiceByID("Suggests Missing"))
	assert.False(t, m.IsReadyToGenerate())

	require.NoError(t, m.SelectStackByID("single"))
	require.NoError(t, m.SelectComponent("Gin"))
	m.SetPrompt("Use hexagonal architecture")
	assert.True(t, m.IsReadyToGenerate())

	req, err := m.Request()
	require.NoError(t, err)
	assert.Equal(t, "lab", req.Domain)
	assert.Equal(t, "Suggests Missing", req.ServiceName)
	assert.Equal(t, "Single Core", req.StackName)
	assert.Equal(t, "Gin", req.ComponentName)
	assert.Equal(t, "1.22", req.Version)
	assert.Equal(t, "Use hexagonal architecture", req.PromptText)
}

func TestMachine_SelectionIsACopy(t *testing.T) {
	m := NewMachine(testCatalog(t))
	m.SelectDomain("lab")
	require.NoError(t, m.SelectServiceByID("Suggests Single"))

	sel := m.Selection()
	sel.Service.Name = "mutated"
	sel.Stack.Versions[0] = "mutated"

	again := m.Selection()
	assert.Equal(t, "Suggests Single", again.Service.Name)
	assert.Equal(t, "1.22", again.Stack.Versions[0])
}

func TestMachine_DefaultCatalogScenario(t *testing.T) {
	m := NewMachine(catalog.Default())
	m.SelectDomain("software-dev")
	require.NoError(t, m.SelectServiceByID("User Authentication Service"))

	sel := m.Selection()
	require.NotNil(t, sel.Stack)
	assert.Equal(t, "springboot", sel.Stack.ID)
	assert.Equal(t, "3.2.x (Java 21)", sel.Version)
	assert.Equal(t, "Java", sel.CoreLanguage)
	assert.Empty(t, sel.Component)
	assert.True(t, m.IsReadyToGenerate())
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "service", StepService.String())
	assert.Equal(t, "version", StepVersion.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
