package server

import (
	"github.com/phorde/freefleet/internal/server/middleware"
	v1 "github.com/phorde/freefleet/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler())

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/v1")
	{
		modelHandler := v1.NewModelHandler(s.service)
		api.GET("/models", modelHandler.ListModels)

		verifyHandler := v1.NewVerifyHandler(s.service)
		api.GET("/verify/:provider/:model", verifyHandler.Verify)

		delegateHandler := v1.NewDelegateHandler(s.service)
		api.POST("/delegate", delegateHandler.Delegate)

		auditHandler := v1.NewAuditHandler(s.service)
		api.GET("/audit", auditHandler.Recent)
		api.GET("/metrics", auditHandler.Metrics)
	}
}
