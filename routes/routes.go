package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/refurbgear/storefront-backend/controllers"
	"github.com/refurbgear/storefront-backend/middleware"
	"github.com/refurbgear/storefront-backend/models"
)

// Deps bundles the controllers and shared middleware the router needs.
type Deps struct {
	Auth           *controllers.AuthController
	Users          *controllers.UserController
	Products       *controllers.ProductController
	Categories     *controllers.CategoryController
	Configurations *controllers.ConfigurationController
	Uploads        *controllers.UploadController

	RequireAuth gin.HandlerFunc
	RateLimit   gin.HandlerFunc
}

// Register wires every API route. Catalog reads are public; mutations are
// restricted to administrators and editors, user management to
// administrators only.
func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", d.RateLimit, d.Auth.Login)
		auth.GET("/me", d.RequireAuth, d.Auth.Me)
		auth.POST("/register", d.RequireAuth, middleware.RequireRole(models.RoleAdministrator), d.Auth.Register)
		auth.POST("/forgot-password", d.RateLimit, d.Auth.ForgotPassword)
		auth.POST("/reset-password", d.RateLimit, d.Auth.ResetPassword)
	}

	users := api.Group("/users", d.RequireAuth, middleware.RequireRole(models.RoleAdministrator))
	{
		users.GET("", d.Users.List)
		users.GET("/:id", d.Users.Get)
		users.PUT("/:id", d.Users.Update)
		users.DELETE("/:id", d.Users.Delete)
		users.PATCH("/:id/status", d.Users.SetStatus)
	}

	editors := middleware.RequireRole(models.RoleAdministrator, models.RoleEditor)

	products := api.Group("/products")
	{
		products.GET("", d.Products.List)
		products.GET("/:id", d.Products.Get)
		products.GET("/:id/summary", d.Products.Summary)
		products.POST("", d.RequireAuth, editors, d.Products.Create)
		products.PATCH("/:id", d.RequireAuth, editors, d.Products.Update)
		products.DELETE("/:id", d.RequireAuth, editors, d.Products.Delete)
		if d.Uploads != nil {
			products.POST("/:id/images/presign", d.RequireAuth, editors, d.Uploads.PresignProductImage)
		}
	}

	categories := api.Group("/categories")
	{
		categories.GET("", d.Categories.List)
		categories.GET("/:id", d.Categories.Get)
		categories.POST("", d.RequireAuth, editors, d.Categories.Create)
		categories.PUT("/:id", d.RequireAuth, editors, d.Categories.Update)
		categories.DELETE("/:id", d.RequireAuth, editors, d.Categories.Delete)
	}

	api.POST("/configurations", d.Configurations.Submit)
	api.GET("/configurations/:id", d.RequireAuth, editors, d.Configurations.Get)
}
