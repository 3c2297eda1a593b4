package controller

import (
	"errors"
	"net/http"
	"time"

	"chargallery/apperr"
	"chargallery/middlewares"
	"chargallery/models"
	"chargallery/utils"
	"chargallery/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type UserController struct {
	Users     UserStore
	Validator *validation.Validator
	Log       *zap.Logger
	Secret    string
	TokenTTL  time.Duration
	Secure    bool // mark the session cookie Secure
	Timeout   time.Duration
}

func (h *UserController) setSessionCookie(c *gin.Context, value string, expires time.Time, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   h.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *UserController) Register(c *gin.Context) {
	var input models.UserRegistration
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c)
		return
	}
	if err := h.Validator.Validate(&input); err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	exists, err := h.Users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if exists {
		respondError(c, h.Log, apperr.AlreadyExists("user already exists"))
		return
	}

	hash, err := utils.HashPass(input.Password)
	if err != nil {
		respondError(c, h.Log, apperr.Wrap(err, apperr.CodeInternal, "error hashing password"))
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Role:     models.RoleUser,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info("user registered", zap.String("id", user.ID.Hex()))
	c.IndentedJSON(http.StatusCreated, models.UserResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// loginFailed answers a failed login: form posts get the login page back with
// the message, API clients get the JSON error body.
func (h *UserController) loginFailed(c *gin.Context, form bool, err error) {
	if !form {
		respondError(c, h.Log, err)
		return
	}
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		h.Log.Error("login failed", zap.Error(err))
	}
	c.HTML(e.HTTPStatus(), "login.html", gin.H{"Title": "Sign in", "Error": e.Message})
}

// Login issues a token in both the response body and the session cookie.
func (h *UserController) Login(c *gin.Context) {
	// Form posts come from the login page and go back to it, or on to the gallery.
	form := c.ContentType() == binding.MIMEPOSTForm

	var input models.UserLogin
	if err := c.ShouldBind(&input); err != nil {
		if !form {
			invalidBody(c)
			return
		}
		h.loginFailed(c, form, apperr.Wrap(err, apperr.CodeValidation, "Invalid Request Body"))
		return
	}
	if err := h.Validator.Validate(&input); err != nil {
		h.loginFailed(c, form, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	invalid := apperr.Unauthorized("invalid email or password")

	user, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = invalid
		}
		h.loginFailed(c, form, err)
		return
	}
	if err := utils.ComparePass(input.Password, user.Password); err != nil {
		h.loginFailed(c, form, invalid)
		return
	}

	token, err := utils.SignedToken(h.Secret, h.TokenTTL, user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		h.loginFailed(c, form, apperr.Wrap(err, apperr.CodeInternal, "error issuing token"))
		return
	}
	h.setSessionCookie(c, token, time.Now().Add(h.TokenTTL), int(h.TokenTTL.Seconds()))

	if form {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "Login Successful", "token": token})
}

func (h *UserController) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", time.Now().Add(-time.Second), -1)
	c.IndentedJSON(http.StatusOK, gin.H{"status": "Logout Successful"})
}
