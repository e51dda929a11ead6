package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kintree/backend/internal/model"
)

func (s *Server) listTrees(c *gin.Context) {
	trees, err := s.access.ListUserTrees(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trees)
}

func (s *Server) createTree(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := s.access.CreateTree(c.Request.Context(), actorFrom(c), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) getTree(c *gin.Context) {
	t, err := s.access.GetTree(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	role, _ := c.MustGet("treeRole").(model.Role)
	c.JSON(http.StatusOK, model.TreeSummary{Tree: *t, Role: role})
}

func (s *Server) renameTree(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := s.access.RenameTree(c.Request.Context(), actorFrom(c), c.Param("treeID"), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTree(c *gin.Context) {
	if err := s.access.DeleteTree(c.Request.Context(), actorFrom(c), c.Param("treeID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) treeMembers(c *gin.Context) {
	membership, err := s.access.Members(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

func (s *Server) treeChanges(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	changes, err := s.audit.List(c.Request.Context(), c.Param("treeID"), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}

func (s *Server) exportTree(c *gin.Context) {
	export, err := s.family.ExportGraph(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}

// ── Access grants ──

func (s *Server) grantUserAccess(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.access.GrantUserAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), u.ID, model.Role(req.Role)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "granted"})
}

func (s *Server) updateUserAccess(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.access.UpdateUserAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("userID"), model.Role(req.Role)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) revokeUserAccess(c *gin.Context) {
	if err := s.access.RevokeUserAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("userID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}

func (s *Server) grantGroupAccess(c *gin.Context) {
	var req struct {
		GroupID string `json:"group_id" binding:"required"`
		Role    string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.access.GrantGroupAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), req.GroupID, model.Role(req.Role)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "granted"})
}

func (s *Server) updateGroupAccess(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.access.UpdateGroupAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("groupID"), model.Role(req.Role)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) revokeGroupAccess(c *gin.Context) {
	if err := s.access.RevokeGroupAccess(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("groupID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
