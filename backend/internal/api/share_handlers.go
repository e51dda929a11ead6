package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kintree/backend/internal/model"
)

func (s *Server) createShareLink(c *gin.Context) {
	link, err := s.sharing.CreateLink(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (s *Server) listShareLinks(c *gin.Context) {
	links, err := s.sharing.ListLinks(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (s *Server) deleteShareLink(c *gin.Context) {
	if err := s.requireLinkOwner(c); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.sharing.DeleteLink(c.Request.Context(), c.Param("token")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) listShareViewers(c *gin.Context) {
	if err := s.requireLinkOwner(c); err != nil {
		s.respondError(c, err)
		return
	}
	viewers, err := s.sharing.ListViewers(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewers)
}

func (s *Server) addShareViewer(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.requireLinkOwner(c); err != nil {
		s.respondError(c, err)
		return
	}
	v, err := s.sharing.AddViewer(c.Request.Context(), c.Param("token"), req.Email, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) removeShareViewer(c *gin.Context) {
	if err := s.requireLinkOwner(c); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.sharing.RemoveViewer(c.Request.Context(), c.Param("token"), c.Param("viewerID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) shareAccessLog(c *gin.Context) {
	if err := s.requireLinkOwner(c); err != nil {
		s.respondError(c, err)
		return
	}
	log, err := s.sharing.AccessLog(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// ── Public share access (no account) ──

// verifyShareAccess checks an email against a link's viewer list and records
// the access.
func (s *Server) verifyShareAccess(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := s.sharing.CheckAccess(c.Request.Context(), c.Param("token"), req.Email, c.ClientIP())
	if err != nil {
		s.respondError(c, err)
		return
	}
	link, err := s.sharing.GetLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewer": v, "tree_id": link.TreeID})
}

// shareGraph serves the tree export to a verified viewer email.
func (s *Server) shareGraph(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	if _, err := s.sharing.CheckAccess(c.Request.Context(), c.Param("token"), email, c.ClientIP()); err != nil {
		s.respondError(c, err)
		return
	}
	link, err := s.sharing.GetLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	export, err := s.family.ExportGraph(c.Request.Context(), link.TreeID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}

// requireLinkOwner resolves the link's tree and requires ownership of it.
// Unknown tokens surface as not-found before any role check.
func (s *Server) requireLinkOwner(c *gin.Context) error {
	link, err := s.sharing.GetLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		return err
	}
	_, err = s.access.RequireRole(c.Request.Context(), currentUser(c).ID, link.TreeID, model.RoleOwner)
	return err
}
