package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
)

// Response headers set by the authentication filter.
const (
	authorizationHeader = "Authorization"
	extStatusHeader     = "extStatus"
	exposeHeadersHeader = "Access-Control-Expose-Headers"
)

// Paths reachable without an authenticated identity. Everything else behind
// the filter requires one.
var unauthenticatedSuffixes = []string{
	"/authenticate",
	"/challengeauth",
	"/users/resetUserPassword",
}

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// Authenticator defines the engine operations required by the filter.
type Authenticator interface {
	AuthenticateUser(ctx context.Context, request domain.AuthenticationRequest) (domain.AuthenticationResponse, error)
	PasswordExpiryStatus(ctx context.Context, userName string) (int, error)
}

// TokenRenewer defines the token operations required by the filter.
type TokenRenewer interface {
	CreateToken(userName string) (string, error)
	ParseToken(token string) string
	ExtendToken(token string) string
}

// AuthenticationFilter resolves the caller identity on every request and
// renews its token. Resolution order: identity already placed in the
// context by earlier middleware, then HTTP Basic credentials through the
// full login engine, then a bearer token.
type AuthenticationFilter struct {
	auth   Authenticator
	tokens TokenRenewer
	logger *zap.Logger
}

// NewAuthenticationFilter constructs the boundary filter.
func NewAuthenticationFilter(auth Authenticator, tokens TokenRenewer, logger *zap.Logger) *AuthenticationFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthenticationFilter{auth: auth, tokens: tokens, logger: logger}
}

// Handler returns the gin middleware enforcing the filter.
func (f *AuthenticationFilter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Preflight requests never carry credentials.
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		userName, token := f.resolveIdentity(c)

		if userName == "" {
			if allowsUnauthenticated(c.Request.URL.Path) {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "authentication required"))
			return
		}

		c.Set(UserNameKey, userName)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserName = userName
		}

		f.attachIdentityHeaders(c, userName, token)

		c.Next()
	}
}

// resolveIdentity returns the caller's user name and, when it arrived via
// token, the presented token.
func (f *AuthenticationFilter) resolveIdentity(c *gin.Context) (string, string) {
	if userName, ok := GetAuthenticatedUserName(c); ok {
		return userName, ""
	}

	header := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if header == "" {
		return "", ""
	}

	if strings.HasPrefix(strings.ToLower(header), "basic ") {
		return f.resolveBasic(c, header[len("basic "):]), ""
	}

	token := header
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		token = strings.TrimSpace(header[len("bearer "):])
	}

	return f.tokens.ParseToken(token), token
}

func (f *AuthenticationFilter) resolveBasic(c *gin.Context, encoded string) string {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return ""
	}

	userName, password, found := strings.Cut(string(decoded), ":")
	if !found || userName == "" || password == "" {
		return ""
	}

	response, err := f.auth.AuthenticateUser(c.Request.Context(), domain.AuthenticationRequest{
		UserName: userName,
		Password: password,
	})
	if err != nil {
		f.logger.Warn("basic authentication failed",
			zap.String("user_name", userName),
			zap.Error(err),
		)
		return ""
	}
	if !response.Authenticated {
		return ""
	}

	return userName
}

// attachIdentityHeaders renews the caller's token and reports the password
// expiry signal on every authenticated response.
func (f *AuthenticationFilter) attachIdentityHeaders(c *gin.Context, userName, token string) {
	renewed := ""
	if token != "" {
		renewed = f.tokens.ExtendToken(token)
	}
	if renewed == "" {
		created, err := f.tokens.CreateToken(userName)
		if err != nil {
			f.logger.Warn("token renewal failed",
				zap.String("user_name", userName),
				zap.Error(err),
			)
			return
		}
		renewed = created
	}

	status, err := f.auth.PasswordExpiryStatus(c.Request.Context(), userName)
	if err != nil {
		f.logger.Warn("password expiry lookup failed",
			zap.String("user_name", userName),
			zap.Error(err),
		)
		status = domain.PasswordStatusOK
	}

	header := c.Writer.Header()
	header.Set(authorizationHeader, renewed)
	header.Set(extStatusHeader, strconv.Itoa(status))
	header.Set(exposeHeadersHeader, authorizationHeader)
}

func allowsUnauthenticated(path string) bool {
	trimmed := strings.TrimSuffix(path, "/")
	for _, suffix := range unauthenticatedSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}

// GetAuthenticatedUserName retrieves the user name from context (helper for handlers)
func GetAuthenticatedUserName(c *gin.Context) (string, bool) {
	userName, exists := c.Get(UserNameKey)
	if !exists {
		return "", false
	}

	if name, ok := userName.(string); ok && name != "" {
		return name, true
	}

	return "", false
}
