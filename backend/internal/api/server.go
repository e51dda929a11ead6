// Package api is the HTTP surface: a gin router over the service layer.
// Handlers translate between JSON and service calls; every tree-scoped route
// is gated by the role middleware before it reaches a service.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kintree/backend/internal/access"
	"kintree/backend/internal/audit"
	"kintree/backend/internal/auth"
	"kintree/backend/internal/family"
	"kintree/backend/internal/groups"
	"kintree/backend/internal/model"
	"kintree/backend/internal/sharing"
	"kintree/backend/internal/store"
	"kintree/backend/internal/users"
	"kintree/backend/pkg/config"
	"kintree/backend/pkg/logger"
)

// Server wires the services behind the HTTP handlers.
type Server struct {
	cfg     *config.Config
	users   *users.Service
	access  *access.Service
	family  *family.Service
	groups  *groups.Service
	sharing *sharing.Service
	audit   *audit.Log
	codec   auth.TokenCodec
	logger  *zap.Logger
}

func NewServer(cfg *config.Config, st store.Store, codec auth.TokenCodec) *Server {
	rec := audit.NewLog(st)
	return &Server{
		cfg:     cfg,
		users:   users.NewService(st),
		access:  access.NewService(st, rec),
		family:  family.NewService(st, rec),
		groups:  groups.NewService(st),
		sharing: sharing.NewService(st),
		audit:   rec,
		codec:   codec,
		logger:  logger.Get(),
	}
}

// Router builds the full route tree.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)

	// Share-link access needs no account.
	api.POST("/share/:token/verify", s.verifyShareAccess)
	api.GET("/share/:token/graph", s.shareGraph)

	authed := api.Group("", s.requireAuth())
	{
		authed.GET("/auth/me", s.me)

		authed.GET("/trees", s.listTrees)
		authed.POST("/trees", s.createTree)

		tree := authed.Group("/trees/:treeID")
		{
			tree.GET("", s.requireTreeRole(model.RoleViewer), s.getTree)
			tree.PUT("", s.requireTreeRole(model.RoleOwner), s.renameTree)
			tree.DELETE("", s.requireTreeRole(model.RoleOwner), s.deleteTree)
			tree.GET("/members", s.requireTreeRole(model.RoleViewer), s.treeMembers)
			tree.GET("/changes", s.requireTreeRole(model.RoleViewer), s.treeChanges)
			tree.GET("/export", s.requireTreeRole(model.RoleViewer), s.exportTree)

			tree.POST("/access", s.requireTreeRole(model.RoleOwner), s.grantUserAccess)
			tree.PUT("/access/:userID", s.requireTreeRole(model.RoleOwner), s.updateUserAccess)
			tree.DELETE("/access/:userID", s.requireTreeRole(model.RoleOwner), s.revokeUserAccess)
			tree.POST("/group-access", s.requireTreeRole(model.RoleOwner), s.grantGroupAccess)
			tree.PUT("/group-access/:groupID", s.requireTreeRole(model.RoleOwner), s.updateGroupAccess)
			tree.DELETE("/group-access/:groupID", s.requireTreeRole(model.RoleOwner), s.revokeGroupAccess)

			tree.GET("/people", s.requireTreeRole(model.RoleViewer), s.listPeople)
			tree.POST("/people", s.requireTreeRole(model.RoleEditor), s.createPerson)
			tree.GET("/people/:personID", s.requireTreeRole(model.RoleViewer), s.getPerson)
			tree.PUT("/people/:personID", s.requireTreeRole(model.RoleEditor), s.updatePerson)
			tree.DELETE("/people/:personID", s.requireTreeRole(model.RoleEditor), s.deletePerson)
			tree.GET("/people/:personID/parents", s.requireTreeRole(model.RoleViewer), s.personParents)
			tree.GET("/people/:personID/children", s.requireTreeRole(model.RoleViewer), s.personChildren)
			tree.POST("/people/:personID/merge", s.requireTreeRole(model.RoleEditor), s.mergePerson)
			tree.POST("/people/:personID/spouse", s.requireTreeRole(model.RoleEditor), s.linkSpouses)

			tree.GET("/people/:personID/comments", s.requireTreeRole(model.RoleViewer), s.listComments)
			tree.POST("/people/:personID/comments", s.requireTreeRole(model.RoleEditor), s.addComment)
			tree.DELETE("/comments/:commentID", s.requireTreeRole(model.RoleEditor), s.deleteComment)

			tree.POST("/relationships", s.requireTreeRole(model.RoleEditor), s.createRelationship)
			tree.DELETE("/relationships/:relID", s.requireTreeRole(model.RoleEditor), s.deleteRelationship)
			tree.POST("/relationships/delete-parent", s.requireTreeRole(model.RoleEditor), s.deleteParentEdge)

			tree.GET("/shares", s.requireTreeRole(model.RoleOwner), s.listShareLinks)
			tree.POST("/shares", s.requireTreeRole(model.RoleOwner), s.createShareLink)
		}

		authed.DELETE("/shares/:token", s.deleteShareLink)
		authed.GET("/shares/:token/viewers", s.listShareViewers)
		authed.POST("/shares/:token/viewers", s.addShareViewer)
		authed.DELETE("/shares/:token/viewers/:viewerID", s.removeShareViewer)
		authed.GET("/shares/:token/log", s.shareAccessLog)

		authed.GET("/groups", s.listGroups)
		authed.POST("/groups", s.createGroup)
		authed.GET("/groups/:groupID", s.getGroup)
		authed.PUT("/groups/:groupID", s.updateGroup)
		authed.DELETE("/groups/:groupID", s.deleteGroup)
		authed.GET("/groups/:groupID/members", s.listGroupMembers)
		authed.POST("/groups/:groupID/members", s.addGroupMember)
		authed.DELETE("/groups/:groupID/members/:userID", s.removeGroupMember)
		authed.GET("/groups/:groupID/trees", s.listGroupTrees)

		authed.GET("/admin/groups", s.listAllGroups)
	}

	return router
}
