package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/services"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	usersController := NewUsersController(cfg.Users)
	booksController := NewBooksController(cfg.Books)
	borrowingsController := NewBorrowingsController(cfg.Ledger)
	finesController := NewFinesController(cfg.Fines)
	overdue := cfg.Overdue
	if overdue == nil {
		overdue, _ = cfg.Ledger.(services.OverdueReport)
	}
	overdueController := NewOverdueController(overdue, cfg.Fines, cfg.Sweeper, cfg.TaskStatus, cfg.Now)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/users", usersController.RegisterUser)
		api.GET("/users/:id", usersController.GetUser)
		api.PATCH("/users/:id", usersController.UpdateUser)
		api.GET("/users/:id/borrowings", borrowingsController.GetBorrowedBooks)

		api.POST("/books", booksController.AddBook)
		api.GET("/books", booksController.GetBooks)
		api.GET("/books/:id", booksController.GetBook)

		api.POST("/borrowings", borrowingsController.BorrowBook)
		api.POST("/borrowings/return", borrowingsController.ReturnBook)
		api.GET("/borrowings/overdue", overdueController.ListOverdue)
		api.POST("/overdue/sweep", overdueController.RunSweep)
		api.GET("/tasks/:id", overdueController.GetTaskStatus)

		api.GET("/fines", finesController.CalculateFine)
	}

	return router
}
