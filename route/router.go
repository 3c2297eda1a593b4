package route

import (
	"time"

	"chargallery/controller"
	mw "chargallery/middlewares"
	"chargallery/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Characters *controller.CharacterController
	Tags       *controller.TagController
	Media      *controller.MediaController
	Users      *controller.UserController
	Pages      *controller.PageController
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimiter    *mw.RateLimiter // nil disables rate limiting
	Log            *zap.Logger
}

func New(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), mw.RequestLogger(opts.Log))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}

	router.SetHTMLTemplate(views.Templates())

	Unprotected(router, h)
	Pages(router, h, opts.JWTSecret)
	Protected(router, h, opts.JWTSecret)
	return router
}
