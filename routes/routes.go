package routes

import (
	"caterdesk-backend/config"
	"caterdesk-backend/controllers"
	"caterdesk-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Daily menu lifecycle
		menus := api.Group("/daily-menus")
		{
			menus.POST("", controllers.CreateDailyMenu)
			menus.GET("", controllers.GetDailyMenus)
			menus.GET("/:id", controllers.GetDailyMenu)
			menus.DELETE("/:id", controllers.DeleteDailyMenu)

			menus.POST("/:id/publish", controllers.PublishDailyMenu)
			menus.POST("/:id/lock", controllers.LockDailyMenu)
			menus.POST("/:id/unlock", controllers.UnlockDailyMenu)
			menus.POST("/:id/unpublish", controllers.UnpublishDailyMenu)

			menus.POST("/:id/packs", controllers.AttachPackToMenu)
			menus.DELETE("/:id/packs/:packId", controllers.DetachPackFromMenu)
			menus.POST("/:id/variants", controllers.AttachVariantToMenu)
			menus.DELETE("/:id/variants/:variantId", controllers.DetachVariantFromMenu)
			menus.PATCH("/:id/variants/:variantId", controllers.UpdateMenuVariantStock)
		}

		// Catalog
		packs := api.Group("/packs")
		{
			packs.POST("", controllers.CreatePack)
			packs.GET("", controllers.GetPacks)
			packs.GET("/:id", controllers.GetPack)
			packs.PUT("/:id", controllers.UpdatePack)
			packs.POST("/:id/components", controllers.CreateComponent)
		}
		api.POST("/components/:id/variants", controllers.CreateVariant)
		api.PATCH("/variants/:id", controllers.UpdateVariant)

		// Ordering channels
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.POST("/:id/packs", controllers.AddPackToService)
			services.GET("/:id/window", controllers.GetServiceWindow)
		}

		// Businesses and subscriptions
		businesses := api.Group("/businesses")
		{
			businesses.POST("", controllers.CreateBusiness)
			businesses.GET("", controllers.GetBusinesses)
			businesses.GET("/:id", controllers.GetBusiness)
			businesses.PUT("/:id", controllers.UpdateBusiness)

			businesses.POST("/:id/services", controllers.ActivateBusinessService)
			businesses.GET("/:id/services/:serviceId", controllers.GetBusinessService)
			businesses.PATCH("/:id/services/:serviceId", controllers.ChangeBusinessServicePack)
			businesses.POST("/:id/services/:serviceId/cancel-change", controllers.CancelScheduledPackChange)
			businesses.DELETE("/:id/services/:serviceId", controllers.DeactivateBusinessService)
		}

		// Orders
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.PlaceOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.DELETE("/:id", controllers.CancelOrder)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
