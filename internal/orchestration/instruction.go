package orchestration

import (
	"fmt"
	"strings"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

const (
	defaultComponent = "Standard Library"
	portfolioMarker  = "DevOmniverse"
)

// IsPortfolioRequest reports whether the request targets the platform's own
// reference project, which is generated with a fixed file manifest.
func IsPortfolioRequest(req models.GenerationRequest) bool {
	return strings.Contains(req.ServiceName, portfolioMarker)
}

// BuildInstruction renders the system instruction sent alongside the
// user's free-text prompt.
func BuildInstruction(req models.GenerationRequest) string {
	component := req.ComponentName
	if component == "" {
		component = defaultComponent
	}

	var b strings.Builder
	b.WriteString(`You are the "DevOmniverse Engine", a proprietary Enterprise Architecture Generator.

TASK: Generate a production-ready, multi-file project structure.

CONTEXT:
`)
	fmt.Fprintf(&b, "- Domain: %s\n", req.Domain)
	fmt.Fprintf(&b, "- Microservice: %s\n", req.ServiceName)
	fmt.Fprintf(&b, "- Stack: %s\n", req.StackName)
	fmt.Fprintf(&b, "- Version: %s\n", req.Version)
	fmt.Fprintf(&b, "- Component: %s\n\n", component)

	if IsPortfolioRequest(req) {
		b.WriteString(portfolioRules)
	} else {
		fmt.Fprintf(&b, `GENERAL GENERATION RULES:
1. STRICTLY adhere to %s best practices.
2. Implement strict input validation and error handling.
3. Include extensive Javadoc/Comments explaining the architecture.
`, req.StackName)
	}

	b.WriteString(outputFormatRules)
	return b.String()
}

const portfolioRules = `PORTFOLIO PROJECT GENERATION MODE
The user is generating the "Universal Service Registry & Code Generator" (DevOmniverse).
Generate a COMPLETE, SECURE, FULL-STACK solution that runs as is via Docker.

ARCHITECTURE:
1. Backend: Java 17+, Spring Boot 3.2+ (Maven).
2. Frontend: React 18+, TypeScript, Vite, Tailwind CSS.
3. Infrastructure: Docker (multi-stage), Nginx (reverse proxy), Docker Compose.
4. Database: PostgreSQL.

SECURITY MANDATES (OWASP TOP 10):
1. Backend (Spring Security 6): stateless JWT authentication, role-based access
   control on all endpoints, BCrypt password hashing, CORS allowing http://localhost.
2. DevOps: Nginx with "server_tokens off;", HTTPS, HSTS and CSP; containers run as
   a non-root user (USER 1001); Docker Compose orchestrates backend, frontend and db.

REQUIRED FILES, IN THIS ORDER:
1. README.md
2. docker-compose.yml
3. backend/Dockerfile
4. frontend/Dockerfile
5. nginx/nginx.conf
6. backend/pom.xml
7. backend/src/main/resources/application.properties
8. backend/src/main/java/com/devomniverse/DevOmniverseApplication.java
9. backend/src/main/java/com/devomniverse/config/SecurityConfig.java
10. backend/src/main/java/com/devomniverse/controller/AuthController.java
11. frontend/package.json
12. frontend/vite.config.ts
13. frontend/src/App.tsx
14. frontend/src/services/api.ts

Generate full content for all 14 files.
`

const outputFormatRules = `
OUTPUT FORMAT (STRICT):
Use the following delimiters for every file. Do not wrap in markdown code blocks.

<<<<FILE: path/to/filename.ext>>>>
[Source Code Content]
<<<<ENDFILE>>>>

<<<<FILE: another/file.ext>>>>
[Source Code Content]
<<<<ENDFILE>>>>
`
