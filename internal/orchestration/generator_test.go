package orchestration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/parser"
)

func TestStaticGenerator(t *testing.T) {
	req := sampleRequest()
	req.ComponentName = ""

	text, err := StaticGenerator{}.Generate(context.Background(), req)
	require.NoError(t, err)

	files := parser.Parse(text)
	require.Len(t, files, 2)
	assert.Contains(t, files[0].Content, "# User Authentication Service")
	assert.Contains(t, files[0].Content, "Component: Standard Library")
	assert.Contains(t, files[0].Content, req.PromptText)
	assert.Equal(t, "domain: Software Development\nservice: User Authentication Service\nstack: Spring Boot\nversion: 3.2.x (Java 21)", files[1].Content)
}
