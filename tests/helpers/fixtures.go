package helpers

import (
	"encoding/json"
	"strings"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

// TestSelection is the selection walked by the integration tests
type TestSelection struct {
	Domain    string
	Service   string
	Component string
	Prompt    string
}

// Default test fixtures
var (
	DefaultTestSelection = TestSelection{
		Domain:    "software-dev",
		Service:   "User Authentication Service",
		Component: "Spring Security",
		Prompt:    "Generate the auth service with JWT refresh tokens",
	}

	DefaultGeneratedFiles = []models.GeneratedFile{
		{Name: "pom.xml", Content: "<project>\n  <artifactId>auth</artifactId>\n</project>"},
		{Name: "/src/main/java/com/example/AuthApplication.java", Content: "package com.example;\n\npublic class AuthApplication {}"},
		{Name: "./README.md", Content: "# Auth Service"},
	}
)

// DelimitedResponse renders files in the model's file delimiter grammar,
// surrounded by prose the parser must ignore
func DelimitedResponse(files []models.GeneratedFile) string {
	var b strings.Builder
	b.WriteString("Here is your project.\n\n")
	for _, f := range files {
		b.WriteString("<<<<FILE: " + f.Name + ">>>>\n")
		b.WriteString(f.Content)
		b.WriteString("\n<<<<ENDFILE>>>>\n\n")
	}
	b.WriteString("Let me know if you need changes.")
	return b.String()
}

// CreateSessionRequest creates a session creation payload
func CreateSessionRequest(domain string) map[string]interface{} {
	return map[string]interface{}{"domain": domain}
}

// SelectRequest creates a selection step payload
func SelectRequest(value string) map[string]interface{} {
	return map[string]interface{}{"value": value}
}

// ToJSON converts a fixture to JSON string
func ToJSON(fixture interface{}) string {
	data, _ := json.Marshal(fixture)
	return string(data)
}
