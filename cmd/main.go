package main

import (
	"fmt"
	"os"

	"github.com/facebookgo/clock"

	"github.com/mcampos/library-api/internal/db"
	"github.com/mcampos/library-api/internal/handlers"
	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/platform/sendgrid"
	"github.com/mcampos/library-api/internal/repos"
	"github.com/mcampos/library-api/internal/server"
	"github.com/mcampos/library-api/internal/services"
	"github.com/mcampos/library-api/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	graceDays := utils.GetEnvAsInt("LATE_LOAN_GRACE_DAYS", 4, log)
	lateLoanCron := utils.GetEnv("LATE_LOAN_CRON", "0 0 * * *", log)
	lateLoanMessage := utils.GetEnv("LATE_LOAN_MESSAGE", "You have a late book loan. Please return it to the library.", log)
	mailFrom := utils.GetEnv("MAIL_FROM_EMAIL", "library@localhost", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	bookRepo := repos.NewBookRepo(thePG, log)
	loanRepo := repos.NewLoanRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	clk := clock.New()
	bookService := services.NewBookService(thePG, log, bookRepo)
	loanService := services.NewLoanService(thePG, log, loanRepo, clk)

	mailClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("Could not init SendGrid client, overdue notices disabled", "error", err)
	}

	if mailClient != nil {
		emailService := services.NewEmailService(log, mailClient, mailFrom)
		scheduleService := services.NewScheduleService(log, loanService, emailService, clk, services.ScheduleConfig{
			CronSpec:  lateLoanCron,
			GraceDays: graceDays,
			Message:   lateLoanMessage,
		})
		if err := scheduleService.Start(); err != nil {
			log.Error("Could not start late loan scheduler", "error", err)
			os.Exit(1)
		}
		defer scheduleService.Stop()
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	bookHandler := handlers.NewBookHandler(log, bookService, loanService)
	loanHandler := handlers.NewLoanHandler(log, loanService, bookService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		BookHandler: bookHandler,
		LoanHandler: loanHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
