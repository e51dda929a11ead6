package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kintree/backend/pkg/apperrors"
)

func (s *Server) listGroups(c *gin.Context) {
	list, err := s.groups.ListUserGroups(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) listAllGroups(c *gin.Context) {
	if !currentUser(c).IsAdmin {
		s.respondError(c, apperrors.Forbidden("requires admin"))
		return
	}
	list, err := s.groups.ListAllGroups(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createGroup(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := s.groups.CreateGroup(c.Request.Context(), req.Name, req.Description, currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (s *Server) getGroup(c *gin.Context) {
	g, err := s.groups.GetGroup(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) updateGroup(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.requireGroupManager(c); err != nil {
		s.respondError(c, err)
		return
	}
	g, err := s.groups.UpdateGroup(c.Request.Context(), c.Param("groupID"), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) deleteGroup(c *gin.Context) {
	if err := s.requireGroupManager(c); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.groups.DeleteGroup(c.Request.Context(), c.Param("groupID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) listGroupMembers(c *gin.Context) {
	members, err := s.groups.ListMembers(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) addGroupMember(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.requireGroupManager(c); err != nil {
		s.respondError(c, err)
		return
	}
	u, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.groups.AddMember(c.Request.Context(), c.Param("groupID"), u.ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (s *Server) removeGroupMember(c *gin.Context) {
	if err := s.requireGroupManager(c); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.groups.RemoveMember(c.Request.Context(), c.Param("groupID"), c.Param("userID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) listGroupTrees(c *gin.Context) {
	trees, err := s.groups.ListGroupTrees(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trees)
}

// requireGroupManager allows the group's creator or a site admin through.
func (s *Server) requireGroupManager(c *gin.Context) error {
	ok, err := s.groups.CanManage(c.Request.Context(), c.Param("groupID"), currentUser(c))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("only the group creator or an admin can manage this group")
	}
	return nil
}
