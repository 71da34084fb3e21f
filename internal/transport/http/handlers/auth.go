package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/usecase"
)

// AuthEngine defines the engine operations the authentication endpoints use.
type AuthEngine interface {
	AuthenticateUser(ctx context.Context, request domain.AuthenticationRequest) (domain.AuthenticationResponse, error)
	AuthenticateChallenge(ctx context.Context, request domain.ChallengeResponse) (domain.AuthenticationResponse, error)
	GetUserChallenge(ctx context.Context, userName string) (*domain.ChallengeResponse, error)
}

// TokenIssuer creates signed tokens for authenticated users.
type TokenIssuer interface {
	CreateToken(userName string) (string, error)
}

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth   AuthEngine
	tokens TokenIssuer
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth AuthEngine, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of the login handlers.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	authenticate := append([]gin.HandlerFunc{}, loginMiddlewares...)
	r.POST("/authenticate", append(authenticate, h.authenticate)...)

	challenge := append([]gin.HandlerFunc{}, loginMiddlewares...)
	r.POST("/challengeauth", append(challenge, h.challengeAuth)...)

	r.GET("/challenge/:userName", h.userChallenge)
}

// authenticate handles password login. Failed logins are 200 responses with
// authenticated=false; only malformed requests and storage faults map to
// error statuses.
func (h *AuthHandler) authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userName and password are required"))
		return
	}

	response, err := h.auth.AuthenticateUser(c.Request.Context(), domain.AuthenticationRequest{
		UserName: strings.TrimSpace(req.UserName),
		Password: req.Password,
	})
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.loginResponse(req.UserName, response))
}

// challengeAuth handles challenge/response login.
func (h *AuthHandler) challengeAuth(c *gin.Context) {
	var req ChallengeAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userName, challenge, and response are required"))
		return
	}

	response, err := h.auth.AuthenticateChallenge(c.Request.Context(), domain.ChallengeResponse{
		UserName:  strings.TrimSpace(req.UserName),
		Challenge: req.Challenge,
		Response:  req.Response,
	})
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.loginResponse(req.UserName, response))
}

// userChallenge returns the stored challenge question for a user.
func (h *AuthHandler) userChallenge(c *gin.Context) {
	userName := strings.TrimSpace(c.Param("userName"))

	challenge, err := h.auth.GetUserChallenge(c.Request.Context(), userName)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNameRequired) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userName is required"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load challenge"))
		return
	}
	if challenge == nil {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "no challenge registered"))
		return
	}

	c.JSON(http.StatusOK, ChallengeQuestionResponse{
		UserName:  challenge.UserName,
		Challenge: challenge.Challenge,
	})
}

func (h *AuthHandler) loginResponse(userName string, response domain.AuthenticationResponse) AuthenticateResponse {
	out := AuthenticateResponse{
		Authenticated: response.Authenticated,
		StatusCode:    response.StatusCode,
		StatusMessage: response.StatusMessage(),
		ExpiryDate:    response.ExpiryDate,
	}

	if response.Authenticated {
		token, err := h.tokens.CreateToken(strings.TrimSpace(userName))
		if err != nil {
			failed := domain.AuthenticationResponse{StatusCode: domain.AuthInternalError}
			return AuthenticateResponse{
				StatusCode:    failed.StatusCode,
				StatusMessage: failed.StatusMessage(),
			}
		}
		out.JWToken = token
	}

	return out
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrUserNameRequired, Status: http.StatusBadRequest, Message: "userName is required"},
		{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
		{Err: usecase.ErrChallengeRequired, Status: http.StatusBadRequest, Message: "challenge and response are required"},
	}, http.StatusInternalServerError, "authentication failed")
}
