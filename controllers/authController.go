package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicsync-be/middlewares"
	"civicsync-be/utils"
)

// CookieSettings controls the auth cookie set on login.
type CookieSettings struct {
	Name   string
	MaxAge int
	Domain string
	Secure bool
}

type AuthController struct {
	auth   AuthService
	cookie CookieSettings
}

func NewAuthController(auth AuthService, cookie CookieSettings) *AuthController {
	return &AuthController{auth: auth, cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser handles user registration
func (ctl *AuthController) RegisterUser(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctl.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.Created(c, result)
}

// LoginUser handles user login and sets the auth cookie
func (ctl *AuthController) LoginUser(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	ctl.setCookie(c, result.Token, ctl.cookie.MaxAge)
	utils.OK(c, result)
}

// GetProfile retrieves the authenticated user's information
func (ctl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctl.auth.Profile(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.OK(c, user)
}

// LogoutUser clears the auth cookie
func (ctl *AuthController) LogoutUser(c *gin.Context) {
	ctl.setCookie(c, "", -1)
	utils.OK(c, gin.H{"message": "Logged out successfully"})
}

func (ctl *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if ctl.cookie.Secure {
		// Cross-origin frontends need None, which browsers only accept on
		// secure cookies.
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     ctl.cookie.Name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   ctl.cookie.Domain,
		Secure:   ctl.cookie.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
