package controller

import (
	"context"
	"time"

	"chargallery/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// respondError writes err as {"error", "code", "fields"} with the status of
// its apperr kind. Internal causes are logged, never returned.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	body := gin.H{"error": e.Message, "code": e.Code}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

func invalidBody(c *gin.Context) {
	c.AbortWithStatusJSON(400, gin.H{"error": "Invalid Request Body", "code": apperr.CodeValidation})
}
