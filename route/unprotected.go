package route

import (
	"github.com/gin-gonic/gin"
)

func Unprotected(router *gin.Engine, h Handlers) {
	router.POST("/registration", h.Users.Register)
	router.POST("/login", h.Users.Login)
	router.POST("/logout", h.Users.Logout)
	router.GET("/login", h.Pages.LoginPage)
}
