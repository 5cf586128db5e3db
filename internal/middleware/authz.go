package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-faster/jx"

	"ghmcp/server/internal/auth"
	"ghmcp/server/internal/observability"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AuthContextKey is the context key for auth context
	AuthContextKey ContextKey = "authContext"
	// RequestIDKey is the context key for request tracing ID
	RequestIDKey ContextKey = "requestID"
)

// AuthContext identifies the caller of an authorized request.
type AuthContext struct {
	Subject string
}

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// Authorizer handles authorization checks
type Authorizer struct {
	verifier TokenVerifier
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(verifier TokenVerifier) *Authorizer {
	return &Authorizer{verifier: verifier}
}

// Authorize is HTTP middleware that requires a valid bearer token.
func (a *Authorizer) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())

		authCtx, err := a.ValidateRequest(r)
		if err != nil {
			observability.LogSecurityEvent(requestID, "", "unauthorized", map[string]any{
				"remote_addr": r.RemoteAddr,
				"error":       err.Error(),
			})
			writeErrorResponse(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateRequest validates the request and returns auth context
func (a *Authorizer) ValidateRequest(r *http.Request) (*AuthContext, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, &AuthError{
			Code:    "MISSING_TOKEN",
			Message: "Missing bearer token",
			Status:  http.StatusUnauthorized,
		}
	}

	claims, err := a.verifier.VerifyToken(strings.TrimSpace(token))
	if err != nil {
		return nil, &AuthError{
			Code:    "INVALID_TOKEN",
			Message: "Invalid bearer token",
			Status:  http.StatusUnauthorized,
		}
	}

	return &AuthContext{Subject: claims.Subject}, nil
}

// AuthError represents an authorization error
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// writeErrorResponse writes an authorization error response
func writeErrorResponse(w http.ResponseWriter, err error) {
	authErr, ok := err.(*AuthError)
	if !ok {
		authErr = &AuthError{
			Code:    "AUTHORIZATION_ERROR",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		}
	}
	if authErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
	}
	writeJSONError(w, authErr.Status, authErr.Code, authErr.Message)
}

// writeJSONError writes {"error":code,"message":message}.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("error", func(e *jx.Encoder) { e.Str(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, _ := ctx.Value(AuthContextKey).(*AuthContext)
	return authCtx
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// generateRequestID creates a random 16-byte hex request ID
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", os.Getpid())
	}
	return hex.EncodeToString(b)
}
