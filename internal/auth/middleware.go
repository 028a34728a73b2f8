package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

var middlewareTracer = otel.Tracer("auth-middleware")

const (
	// SessionIDKey is the gin context key holding the authenticated session ID
	SessionIDKey = "session_id"
	// ClaimsKey is the gin context key holding the full JWT claims
	ClaimsKey = "claims"
)

// RequireSession is a Gin middleware that validates the session token and
// checks it was issued for the session named by the :id path parameter.
// Browsers cannot set headers on websocket upgrades, so the token may also
// be passed as the token query parameter.
func RequireSession(jwtManager *JWTManager, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ctx, span := middlewareTracer.Start(c.Request.Context(), "auth.require_session")
		defer span.End()

		token := extractToken(c)
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.token_present", false))
			abort(c, http.StatusUnauthorized, "Missing or invalid authorization header", models.ErrCodeUnauthorized)
			return
		}
		span.SetAttributes(attribute.Bool("auth.token_present", true))

		claims, err := jwtManager.ValidateToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("auth.token_valid", false))
			logger.Warn("Invalid session token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			abort(c, http.StatusUnauthorized, "Invalid or expired token", models.ErrCodeUnauthorized)
			return
		}

		if id := c.Param("id"); id != "" && id != claims.SessionID {
			span.SetAttributes(attribute.Bool("auth.session_match", false))
			logger.Warn("Token used for another session",
				zap.String("token_session_id", claims.SessionID),
				zap.String("session_id", id))
			abort(c, http.StatusForbidden, "Token does not grant access to this session", models.ErrCodeForbidden)
			return
		}

		span.SetAttributes(
			attribute.Bool("auth.token_valid", true),
			attribute.String("session.id", claims.SessionID),
		)

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	if header != "" {
		return ""
	}
	return c.Query("token")
}

func abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: message, Code: code})
}
