package main

import (
	"forms-platform/internal/httpapi"
	"forms-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. The middleware order on
// admin routes is load-bearing: authentication always runs before the
// role gate.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// liveness
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "API is running"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authMW, h.Me)
	}

	// User forms: authentication only; queries are scoped to the
	// caller inside the service.
	userForms := api.Group("/user/forms")
	userForms.Use(authMW)
	{
		userForms.POST("", h.CreateForm)
		userForms.GET("/my-forms", h.MyForms)
		userForms.GET("/:id", h.GetMyForm)
	}

	// Admin: role gate composed strictly after authentication.
	admin := api.Group("/admin")
	admin.Use(authMW)
	admin.Use(rbac.RequireAdmin())
	{
		admin.GET("/forms", h.AdminListForms)
		admin.GET("/forms/:id", h.AdminGetForm)
		admin.PUT("/forms/:id", h.AdminUpdateForm)
		admin.DELETE("/forms/:id", h.AdminDeleteForm)
	}
}
