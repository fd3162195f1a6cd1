package routes

import (
	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r gin.IRouter, d Deps) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.AuthController.RegisterUser)
		auth.POST("/login", d.AuthController.LoginUser)
		auth.POST("/logout", d.AuthController.LogoutUser)
		auth.GET("/profile", d.Auth.RequireAuth(), d.AuthController.GetProfile)
	}
}
