package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Session cookies last a week; the token itself does not expire server-side.
const sessionMaxAge = 7 * 24 * 60 * 60

func (s *Server) register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		DisplayName string `json:"display_name" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.setSessionCookie(c, s.codec.Issue(u.ID))
	c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	s.setSessionCookie(c, s.codec.Issue(u.ID))
	c.JSON(http.StatusOK, u)
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, sessionMaxAge, "/", "", s.cfg.IsProduction(), true)
}
