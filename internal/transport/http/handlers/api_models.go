package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthenticateRequest defines the payload for the password login endpoint.
type AuthenticateRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChallengeAuthRequest defines the payload for the challenge login endpoint.
type ChallengeAuthRequest struct {
	UserName  string `json:"userName" binding:"required"`
	Challenge string `json:"challenge" binding:"required"`
	Response  string `json:"response" binding:"required"`
}

// AuthenticateResponse describes the outcome of a login attempt. JWToken is
// present only when authentication succeeded.
type AuthenticateResponse struct {
	Authenticated bool       `json:"authenticated"`
	StatusCode    int        `json:"statusCode"`
	StatusMessage string     `json:"statusMessage,omitempty"`
	JWToken       string     `json:"jwtoken,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
}

// ChallengeQuestionResponse carries a user's stored challenge question.
type ChallengeQuestionResponse struct {
	UserName  string `json:"userName"`
	Challenge string `json:"challenge"`
}

// CreateSessionRequest defines the payload for registering a session.
type CreateSessionRequest struct {
	UserName string `json:"userName" binding:"required"`
	UserSite string `json:"userSite"`
}

// CreateSessionResponse returns the id of a newly registered session.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// SessionResponse describes one tracked session.
type SessionResponse struct {
	SessionID    string    `json:"sessionId"`
	UserName     string    `json:"userName"`
	UserSite     string    `json:"userSite,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// HealthResponse reports liveness status.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the status of downstream dependencies.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
