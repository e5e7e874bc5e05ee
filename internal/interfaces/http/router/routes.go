// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"sitecraft-api/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	generationHandler *handler.GenerationHandler,
) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)
	}

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:pid", projectHandler.GetProject)
		projects.PUT("/:pid", projectHandler.UpdateProject)
		projects.DELETE("/:pid", projectHandler.DeleteProject)
	}

	// 网站生成
	v1.POST("/generate-website", generationHandler.GenerateWebsite)
	v1.POST("/regenerate-website", generationHandler.RegenerateWebsite)
	v1.GET("/generation-history/:pid", generationHandler.GetGenerationHistory)
}
