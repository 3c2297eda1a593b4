package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"chargallery/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "Bearer"
	sessionKey = "session"
)

// Session is the identity of the acting user for one request.
type Session struct {
	UserID   string
	Username string
	Role     string
}

// CurrentSession returns the session stored by JWT or RequireSession.
func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok && s.UserID != ""
}

// SetSession is used by handlers and tests that establish identity directly.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// tokenFromRequest prefers the Authorization header (API clients) and falls
// back to the cookie (browsers).
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Request.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func authenticate(c *gin.Context, secret string) (Session, error) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return Session{}, errors.New("authorization token required")
	}
	claims, err := utils.ParseToken(secret, tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, errors.New("token has expired")
		}
		return Session{}, errors.New("invalid token")
	}
	return Session{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// JWT guards API routes, rejecting requests without a valid token.
func JWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := authenticate(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "UNAUTHORIZED"})
			return
		}
		SetSession(c, s)
		c.Next()
	}
}

// RequireSession guards pages: visitors without a session are sent to the
// login page instead of receiving an error.
func RequireSession(secret, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := authenticate(c, secret)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		SetSession(c, s)
		c.Next()
	}
}
