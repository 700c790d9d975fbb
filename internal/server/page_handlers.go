package server

import (
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/rentalhub/internal/endpoints"
	"github.com/rentalhub/rentalhub/internal/routes"
)

// NavigateQuery is the input of the navigation check endpoint
type NavigateQuery struct {
	To   string `form:"to" binding:"required,apppath"`
	From string `form:"from" binding:"omitempty,apppath"`
}

// NavigateResponse reports the guard's decision
type NavigateResponse struct {
	routes.Decision
	Known bool `json:"known"`
}

// EndpointsResponse lists the gateway endpoints for the app
type EndpointsResponse struct {
	BaseURL   string            `json:"base_url"`
	Endpoints []endpoints.Entry `json:"endpoints"`
}

// originPath extracts the in-app path the browser navigated from
func originPath(c *gin.Context) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return ""
	}
	return u.Path
}

// servePage gates a page request and serves the app shell when allowed
func (s *Server) servePage(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	path := c.Request.URL.Path
	decision, _ := s.guard.Navigate(path, originPath(c), sess.Authenticated(c.Request.Context()))
	if decision.Action == routes.Redirect {
		s.logger.Debug().
			Str("from", path).
			Str("to", decision.Target).
			Str("session_id", sess.ID).
			Msg("Navigation redirected")
		c.Redirect(http.StatusFound, decision.Target)
		return
	}

	route, _ := s.guard.Table().Resolve(path)
	if s.config.Server.StaticDir == "" {
		c.JSON(http.StatusOK, gin.H{"route": route.Name, "path": route.Path})
		return
	}
	c.File(filepath.Join(s.config.Server.StaticDir, "index.html"))
}

// @Summary Check a navigation
// @Description Runs the navigation guard for the caller's session
// @Tags navigation
// @Produce json
// @Param to query string true "Destination path"
// @Param from query string false "Origin path"
// @Success 200 {object} NavigateResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/navigate [get]
func (s *Server) navigate(c *gin.Context) {
	var q NavigateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, _ := GetSession(c)
	decision, known := s.guard.Navigate(q.To, q.From, sess.Authenticated(c.Request.Context()))

	c.JSON(http.StatusOK, NavigateResponse{Decision: decision, Known: known})
}

// @Summary List gateway endpoints
// @Tags navigation
// @Produce json
// @Success 200 {object} EndpointsResponse
// @Router /api/endpoints [get]
func (s *Server) listEndpoints(c *gin.Context) {
	reg := s.gateway.Endpoints()
	c.JSON(http.StatusOK, EndpointsResponse{
		BaseURL:   reg.BaseURL,
		Endpoints: reg.Entries(),
	})
}
