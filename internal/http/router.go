package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aldanj/msp-engagements/internal/http/middleware"
)

func NewRouter(h *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	api.Use(authMiddleware)

	api.POST("/contracts", h.createContract)
	api.GET("/contracts", h.listContracts)
	api.GET("/contracts/export", h.exportContracts)
	api.GET("/contracts/:id", h.getContract)
	api.PATCH("/contracts/:id", h.updateContract)
	api.GET("/contracts/:id/total", h.contractTotal)
	api.POST("/contracts/:id/scopes", h.createScope)

	api.GET("/scopes", h.listScopes)
	api.GET("/scopes/:id", h.getScope)
	api.PATCH("/scopes/:id", h.updateScope)
	api.DELETE("/scopes/:id", h.deleteScope)
	api.DELETE("/scopes/:id/hard", middleware.RequireAdmin(), h.hardDeleteScope)
	api.POST("/scopes/:id/proposals", h.createScopedProposal)

	api.POST("/proposals", h.createProposal)
	api.GET("/proposals", h.listProposals)
	api.GET("/proposals/:id", h.getProposal)
	api.PATCH("/proposals/:id", h.updateProposal)
	api.DELETE("/proposals/:id", h.deleteProposal)
	api.GET("/proposals/:id/pdf", h.proposalPDF)

	return router
}
