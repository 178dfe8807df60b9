package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/controllers"
	"github.com/dvircohen/repair-track/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	repairCtrl := controllers.NewRepairController(db)
	templateCtrl := controllers.NewTemplateController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// REPAIRS
	auth.GET("/repairs", repairCtrl.GetAllRepairs)
	auth.POST("/repairs", repairCtrl.CreateRepair)
	auth.GET("/repairs/:repair_id", repairCtrl.GetRepairByID)
	auth.PATCH("/repairs/:repair_id", repairCtrl.UpdateRepair)
	auth.DELETE("/repairs/:repair_id", repairCtrl.DeleteRepair)
	auth.GET("/repairs/:repair_id/history", repairCtrl.GetRepairHistory)

	// FILTER TEMPLATES
	auth.POST("/templates", templateCtrl.SaveTemplate)
	auth.GET("/templates/:group", templateCtrl.GetTemplatesByGroup)
	auth.DELETE("/templates/by-id/:template_id", templateCtrl.DeleteTemplate)

	// Live update feed; token travels in the query string
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/updates", controllers.EventsHandler)
	}

	return r
}
