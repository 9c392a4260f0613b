package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/cache"
	"github.com/bakehouse-next/internal/config"
	adminhandlers "github.com/bakehouse-next/internal/http/handlers/admin"
	publichandlers "github.com/bakehouse-next/internal/http/handlers/public"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/provider"
)

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bh"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Uploaded product images.
	r.Static("/uploads", cfg.Upload.Dir)

	apiV1 := r.Group("/api/v1")
	{
		// Catalog, open to everyone.
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// Accounts.
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// Checkout is open to guests; a valid token attaches the order to
		// the account.
		checkout := apiV1.Group("")
		checkout.Use(UserAuthOptionalMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			checkout.POST("/orders", publicHandler.PlaceOrder)
			checkout.POST("/checkout/session", publicHandler.CreateCheckoutSession)
		}
		apiV1.GET("/orders/confirmation", publicHandler.GetOrderBySession)

		// Stripe calls this; it bypasses the response envelope.
		apiV1.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		// Authenticated storefront surface.
		user := apiV1.Group("")
		user.Use(UserAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)
			user.GET("/me/orders", publicHandler.ListMyOrders)
			user.GET("/me/orders/:id", publicHandler.GetMyOrder)
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:product_id", publicHandler.SetCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/merge", publicHandler.MergeCart)
		}

		// Admin surface: same token scheme, admin role required.
		admin := apiV1.Group("/admin")
		admin.Use(UserAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RequireAdminMiddleware())
		{
			admin.GET("/dashboard/overview", adminHandler.AdminDashboard)

			admin.GET("/products", adminHandler.AdminListProducts)
			admin.POST("/products", adminHandler.AdminCreateProduct)
			admin.GET("/products/:id", adminHandler.AdminGetProduct)
			admin.PUT("/products/:id", adminHandler.AdminUpdateProduct)
			admin.DELETE("/products/:id", adminHandler.AdminDeleteProduct)

			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

			admin.POST("/uploads", adminHandler.AdminUploadImage)
		}
	}

	return r
}
