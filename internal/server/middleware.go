package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/config"
	"github.com/rentalhub/rentalhub/internal/session"
	"github.com/rentalhub/rentalhub/internal/storage"
)

const (
	headerRequestID     = "X-Request-ID"
	contextKeyRequestID = "request_id"
	contextKeySession   = "session"
)

func setSession(c *gin.Context, sess *session.Session) {
	c.Set(contextKeySession, sess)
}

// GetSession returns the session attached by SessionMiddleware
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(contextKeySession)
	if !exists {
		return nil, false
	}

	sess, ok := v.(*session.Session)
	return sess, ok
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("request_id", c.GetString(contextKeyRequestID)).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// SessionMiddleware attaches the caller's session, issuing a new signed
// cookie when the request has none or an invalid one
func SessionMiddleware(manager *session.Manager, store storage.Store, cfg config.SessionConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if raw, err := c.Cookie(cfg.CookieName); err == nil && raw != "" {
			id, err := manager.Verify(raw)
			if err != nil {
				log.Debug().Err(err).Msg("Discarding session cookie")
			} else {
				sessionID = id
			}
		}

		if sessionID == "" {
			id, err := issueSessionCookie(c, manager, cfg)
			if err != nil {
				respondWithError(c, log, http.StatusInternalServerError, err, "Failed to start session")
				return
			}
			sessionID = id
		}

		setSession(c, session.New(sessionID, store, log))
		c.Next()
	}
}

// issueSessionCookie starts a new session ID and sets its signed cookie
func issueSessionCookie(c *gin.Context, manager *session.Manager, cfg config.SessionConfig) (string, error) {
	sessionID := manager.NewID()
	signed, err := manager.Sign(sessionID)
	if err != nil {
		return "", err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID, nil
}

// requestIDMiddleware echoes a valid X-Request-ID or generates one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.NewString()
		if raw := c.GetHeader(headerRequestID); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				rid = id.String()
			}
		}
		c.Set(contextKeyRequestID, rid)
		c.Header(headerRequestID, rid)
		c.Next()
	}
}

// securityHeadersMiddleware adds the usual hardening headers to every response
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Next()
	}
}

// registerValidators adds the custom binding rules the handlers use
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// apppath: an absolute in-app path, never a URL to another host
	_ = v.RegisterValidation("apppath", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//")
	})
}
