package main

import (
	"fmt"
	"log"
	"os"

	"caterdesk-backend/config"
	"caterdesk-backend/models"
	"caterdesk-backend/routes"
	"caterdesk-backend/services"
	"caterdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Pack{},
		&models.Component{},
		&models.Variant{},
		&models.Service{},
		&models.ServicePack{},
		&models.BusinessService{},
		&models.BusinessServicePack{},
		&models.DailyMenu{},
		&models.DailyMenuPack{},
		&models.DailyMenuVariant{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func main() {
	clock := utils.RealClock{}
	menus := services.NewMenuService(config.DB, clock)
	subs := services.NewSubscriptionService(config.DB, clock)

	scheduler := services.NewScheduler(config.DB, clock, menus, subs)
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
