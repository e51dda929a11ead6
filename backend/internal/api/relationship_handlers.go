package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kintree/backend/internal/model"
)

func (s *Server) createRelationship(c *gin.Context) {
	var req struct {
		FromPersonID string `json:"from_person_id" binding:"required"`
		ToPersonID   string `json:"to_person_id" binding:"required"`
		Type         string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rel, err := s.family.CreateRelationship(c.Request.Context(), actorFrom(c),
		c.Param("treeID"), req.FromPersonID, req.ToPersonID, model.RelType(req.Type))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (s *Server) deleteRelationship(c *gin.Context) {
	if err := s.family.DeleteRelationship(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("relID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// deleteParentEdge removes the PARENT_OF edge between a named parent and
// child without needing the edge id.
func (s *Server) deleteParentEdge(c *gin.Context) {
	var req struct {
		ParentID string `json:"parent_id" binding:"required"`
		ChildID  string `json:"child_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.family.DeleteParentEdge(c.Request.Context(), actorFrom(c), c.Param("treeID"), req.ParentID, req.ChildID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
