package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mcampos/library-api/internal/handlers"
)

type RouterConfig struct {
	BookHandler *handlers.BookHandler
	LoanHandler *handlers.LoanHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		books := api.Group("/books")
		books.POST("", cfg.BookHandler.Create)
		books.GET("", cfg.BookHandler.Find)
		books.GET("/:id", cfg.BookHandler.Get)
		books.PUT("/:id", cfg.BookHandler.Update)
		books.DELETE("/:id", cfg.BookHandler.Delete)
		books.GET("/:id/loans", cfg.BookHandler.LoansByBook)

		loans := api.Group("/loans")
		loans.POST("", cfg.LoanHandler.Create)
		loans.GET("", cfg.LoanHandler.Find)
		loans.GET("/:id", cfg.LoanHandler.Get)
		loans.PATCH("/:id", cfg.LoanHandler.Return)
	}

	return router
}
