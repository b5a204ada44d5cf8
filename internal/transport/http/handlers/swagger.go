package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterSwagger exposes the interactive API docs at /docs. Production
// deployments keep the route off.
func RegisterSwagger(r *gin.Engine, env string) {
	if env == "production" {
		return
	}

	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
