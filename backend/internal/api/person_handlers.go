package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kintree/backend/internal/family"
	"kintree/backend/internal/model"
)

type personRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Sex         string `json:"sex"`
	Notes       string `json:"notes"`
	BirthDate   string `json:"birth_date"`
	DeathDate   string `json:"death_date"`
	IsDeceased  *bool  `json:"is_deceased"`
}

func (r personRequest) input() family.PersonInput {
	return family.PersonInput{
		DisplayName: r.DisplayName,
		Sex:         model.Sex(r.Sex),
		Notes:       r.Notes,
		BirthDate:   r.BirthDate,
		DeathDate:   r.DeathDate,
		IsDeceased:  r.IsDeceased,
	}
}

func (s *Server) listPeople(c *gin.Context) {
	people, err := s.family.ListPeople(c.Request.Context(), c.Param("treeID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

func (s *Server) createPerson(c *gin.Context) {
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.family.CreatePerson(c.Request.Context(), actorFrom(c), c.Param("treeID"), req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getPerson(c *gin.Context) {
	p, err := s.family.GetPerson(c.Request.Context(), c.Param("treeID"), c.Param("personID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) updatePerson(c *gin.Context) {
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.family.UpdatePerson(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("personID"), req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deletePerson(c *gin.Context) {
	if err := s.family.DeletePerson(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("personID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) personParents(c *gin.Context) {
	people, err := s.family.Parents(c.Request.Context(), c.Param("treeID"), c.Param("personID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

func (s *Server) personChildren(c *gin.Context) {
	people, err := s.family.Children(c.Request.Context(), c.Param("treeID"), c.Param("personID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

// mergePerson merges another person into the one in the path; the path person
// is kept.
func (s *Server) mergePerson(c *gin.Context) {
	var req struct {
		RemoveID string `json:"remove_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	keepID := c.Param("personID")
	if err := s.family.Merge(c.Request.Context(), actorFrom(c), c.Param("treeID"), keepID, req.RemoveID); err != nil {
		s.respondError(c, err)
		return
	}
	p, err := s.family.GetPerson(c.Request.Context(), c.Param("treeID"), keepID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// linkSpouses links the path person to the given spouse and returns the
// child reconciliation report.
func (s *Server) linkSpouses(c *gin.Context) {
	var req struct {
		SpouseID string `json:"spouse_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := s.family.LinkSpouses(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("personID"), req.SpouseID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ── Comments ──

func (s *Server) listComments(c *gin.Context) {
	comments, err := s.family.ListComments(c.Request.Context(), c.Param("treeID"), c.Param("personID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) addComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := s.family.AddComment(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("personID"), req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.family.DeleteComment(c.Request.Context(), actorFrom(c), c.Param("treeID"), c.Param("commentID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
