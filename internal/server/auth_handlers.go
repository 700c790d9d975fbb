package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/rentalhub/internal/gateway"
	"github.com/rentalhub/rentalhub/internal/routes"
	"github.com/rentalhub/rentalhub/internal/session"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Street1  string `json:"street1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	PhoneNo  string `json:"phoneNo"`
}

// SessionResponse describes the caller's session
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
}

// identityFailure maps an identity service error to a client response
func (s *Server) identityFailure(c *gin.Context, err error) {
	var statusErr *gateway.StatusError
	switch {
	case errors.Is(err, gateway.ErrRejected):
		respondWithError(c, s.logger, http.StatusUnauthorized, err, "Invalid email or password")
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500:
		respondWithError(c, s.logger, http.StatusUnauthorized, err, "Invalid email or password")
	default:
		respondWithError(c, s.logger, http.StatusBadGateway, err, "Identity service unavailable")
	}
}

// signIn moves the caller to a fresh session ID before raising the flag,
// so a cookie issued before authentication never becomes a signed-in one
func (s *Server) signIn(c *gin.Context, prev *session.Session, userID string, status int) {
	ctx := c.Request.Context()

	id, err := issueSessionCookie(c, s.sessions, s.config.Session)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to rotate session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	sess := session.New(id, s.store, s.logger)
	setSession(c, sess)

	if err := s.store.DeleteNamespace(ctx, prev.ID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", prev.ID).Msg("Failed to discard previous session")
	}

	if err := sess.SignIn(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to persist sign-in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().Str("user_id", userID).Str("session_id", sess.ID).Msg("User signed in")

	c.JSON(status, SessionResponse{
		Authenticated: true,
		UserID:        userID,
		Redirect:      routes.LandingPath,
	})
}

// @Summary Login
// @Description Authenticate with the identity service and raise the session flag
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, _ := GetSession(c)

	result, err := s.gateway.Login(c.Request.Context(), gateway.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.identityFailure(c, err)
		return
	}

	s.signIn(c, sess, result.UserID.String(), http.StatusOK)
}

// @Summary Signup
// @Description Register with the identity service and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup request"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/auth/signup [post]
func (s *Server) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, _ := GetSession(c)

	result, err := s.gateway.Signup(c.Request.Context(), gateway.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Street1:  req.Street1,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
		Country:  req.Country,
		PhoneNo:  req.PhoneNo,
	})
	if err != nil {
		s.identityFailure(c, err)
		return
	}

	s.signIn(c, sess, result.UserID.String(), http.StatusCreated)
}

// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /api/auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	sess, _ := GetSession(c)

	if err := sess.SignOut(c.Request.Context()); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to persist sign-out")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("User signed out")

	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: false,
		Redirect:      routes.LoginPath,
	})
}

// @Summary Get current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /api/auth/session [get]
func (s *Server) getSession(c *gin.Context) {
	sess, _ := GetSession(c)
	ctx := c.Request.Context()

	resp := SessionResponse{Authenticated: sess.Authenticated(ctx)}
	if resp.Authenticated {
		resp.UserID = sess.UserID(ctx)
	}
	c.JSON(http.StatusOK, resp)
}
