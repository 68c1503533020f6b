package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drooschuck/funwithflag/internal/auth"
)

type AuthHandler struct {
	authenticator auth.Authenticator
	registrar     *auth.CredentialsAuthenticator
	tokens        *auth.TokenManager
}

// NewAuthHandler wires the login surface. registrar is nil unless the service
// runs in credentials mode; the register route is only mounted when it is set.
func NewAuthHandler(authenticator auth.Authenticator, registrar *auth.CredentialsAuthenticator, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, registrar: registrar, tokens: tokens}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"player1"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"player1"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

type AuthResponse struct {
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	Username string `json:"username" example:"player1"`
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate and return a bearer token for the quiz API. In mock mode any credentials are accepted after a short delay.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login data"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	creds := auth.Credentials{Username: req.Username, Password: req.Password}
	if err := h.authenticator.Authenticate(c.Request.Context(), creds); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, Username: req.Username})
}

// Register godoc
// @Summary      Register a new player
// @Description  Create a player account and return a bearer token. Only available in credentials mode.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.registrar.Register(req.Username, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, Username: req.Username})
}
