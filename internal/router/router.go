package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/handlers"
	"github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/registration", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/guest-login", handlers.GuestLogin)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.GET("/profile", middleware.AuthMiddleware(), handlers.GetProfile)
			auth.PATCH("/profile", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.PATCH("/user", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/user", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PUT("/:task_id", handlers.UpdateTask)
			tasks.PATCH("/:task_id", handlers.PatchTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}

		subtasks := api.Group("/subtasks", middleware.AuthMiddleware())
		{
			subtasks.POST("", handlers.CreateSubtask)
			subtasks.GET("", handlers.ListSubtasks)
			subtasks.GET("/:subtask_id", handlers.GetSubtask)
			subtasks.PUT("/:subtask_id", handlers.UpdateSubtask)
			subtasks.PATCH("/:subtask_id", handlers.PatchSubtask)
			subtasks.DELETE("/:subtask_id", handlers.DeleteSubtask)
		}

		contacts := api.Group("/contacts", middleware.AuthMiddleware())
		{
			contacts.POST("", handlers.CreateContact)
			contacts.GET("", handlers.ListContacts)
			contacts.GET("/:contact_id", handlers.GetContact)
			contacts.PUT("/:contact_id", handlers.UpdateContact)
			contacts.PATCH("/:contact_id", handlers.PatchContact)
			contacts.DELETE("/:contact_id", handlers.DeleteContact)
		}

		api.GET("/summary", middleware.AuthMiddleware(), handlers.GetSummary)
		api.GET("/board", middleware.AuthMiddleware(), handlers.GetBoard)
	}

	return r
}
