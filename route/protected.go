package route

import (
	mw "chargallery/middlewares"

	"github.com/gin-gonic/gin"
)

// Pages are gated by session and redirect to the login page without one.
func Pages(router *gin.Engine, h Handlers, secret string) {
	pages := router.Group("/")
	pages.Use(mw.RequireSession(secret, "/login"))
	pages.GET("/", h.Pages.CharactersPage)
	pages.GET("/tag", h.Pages.TagsPage)
}

func Protected(router *gin.Engine, h Handlers, secret string) {
	protected := router.Group("/api")
	protected.Use(mw.JWT(secret))

	protected.GET("/characters", h.Characters.List)
	protected.GET("/characters/:id", h.Characters.Get)
	protected.POST("/characters", h.Characters.Create)
	protected.PUT("/characters/:id", h.Characters.Update)
	protected.POST("/characters/:id/media", h.Media.Upload)

	protected.GET("/tags", h.Tags.List)
	protected.GET("/tags/:id", h.Tags.Get)
	protected.POST("/tags", h.Tags.Create)
	protected.PUT("/tags/:id", h.Tags.Update)

	protected.POST("/media/:id/like", h.Media.ToggleLike)
	protected.DELETE("/media/:id", h.Media.Delete)
}
