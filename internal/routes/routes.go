// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	crand "crypto/rand"
	"encoding/binary"
	"log"
	"math/rand/v2"

	"earnsure/internal/handlers"
	"earnsure/internal/middleware"
	"earnsure/internal/repositories"
	"earnsure/internal/services/auth"
	"earnsure/internal/services/earning"
	"earnsure/internal/services/game"
	"earnsure/internal/services/ledger"
	"earnsure/internal/services/notification"
	"earnsure/internal/services/reward"
	"earnsure/internal/services/user"
	"earnsure/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	withdrawalRepo := repositories.NewWithdrawalRepository(repositories.DB)
	taskRepo := repositories.NewTaskRepository(repositories.DB)
	notifRepo := repositories.NewNotificationRepository(repositories.DB)

	// Initialize services in correct order
	authService := auth.NewService(userRepo)
	ledgerService := ledger.NewService(ledgerRepo, userRepo, repositories.CacheService)

	resolver := reward.NewResolver(rand.New(rand.NewPCG(cryptoSeed(), cryptoSeed())))

	gameService := game.NewService(ledgerService, userRepo, resolver)
	withdrawalService := withdrawal.NewService(withdrawalRepo, userRepo, notifRepo, repositories.CacheService)
	userService := user.NewService(userRepo, ledgerService, notifRepo)
	earningService := earning.NewService(userRepo, taskRepo, notifRepo, ledgerService)
	notificationService := notification.NewService(notifRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(ledgerService, withdrawalService)
	gameHandler := handlers.NewGameHandler(gameService)
	earningHandler := handlers.NewEarningHandler(earningService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(userService, withdrawalService, earningService, ledgerService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Public routes
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Get("/leaderboard", userHandler.GetLeaderboard)

	setupWalletRoutes(protected, walletHandler)
	setupEarningRoutes(protected, earningHandler)
	setupGameRoutes(protected, gameHandler)
	setupNotificationRoutes(protected, notificationHandler)

	// Admin routes
	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	setupAdminRoutes(admin, adminHandler)
}

// cryptoSeed draws a random seed for the reward resolver's PCG source.
func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		log.Fatalf("Failed to seed reward resolver: %v", err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

func setupWalletRoutes(router fiber.Router, h *handlers.WalletHandler) {
	wallet := router.Group("/wallet")
	wallet.Get("/", h.GetWallet)
	wallet.Get("/transactions", h.GetTransactions)
	wallet.Post("/withdraw", h.RequestWithdrawal)
	wallet.Get("/withdrawals", h.GetWithdrawals)
}

func setupEarningRoutes(router fiber.Router, h *handlers.EarningHandler) {
	router.Post("/checkin", h.CheckIn)
	router.Post("/mining/start", h.StartMining)
	router.Post("/mining/collect", h.CollectMining)
	router.Post("/ads/claim", h.ClaimAdReward)

	tasks := router.Group("/tasks")
	tasks.Get("/", h.ListTasks)
	tasks.Post("/:id/proof", h.SubmitProof)
}

func setupGameRoutes(router fiber.Router, h *handlers.GameHandler) {
	games := router.Group("/games")
	games.Post("/spin", h.Spin)
	games.Post("/scratch", h.Scratch)

	games.Post("/aviator/start", h.StartAviator)
	games.Post("/aviator/cashout", h.CashOutAviator)

	games.Post("/limbo", h.PlayLimbo)

	games.Post("/mines/start", h.StartMines)
	games.Post("/mines/reveal", h.RevealTile)
	games.Post("/mines/cashout", h.CashOutMines)

	games.Post("/chicken/start", h.StartChicken)
	games.Post("/chicken/step", h.StepChicken)
	games.Post("/chicken/cashout", h.CashOutChicken)
}

func setupNotificationRoutes(router fiber.Router, h *handlers.NotificationHandler) {
	notifs := router.Group("/notifications")
	notifs.Get("/", h.ListNotifications)
	notifs.Post("/:id/read", h.MarkRead)
}

func setupAdminRoutes(router fiber.Router, h *handlers.AdminHandler) {
	router.Get("/withdrawals", h.ListPendingWithdrawals)
	router.Post("/withdrawals/:id/resolve", h.ResolveWithdrawal)

	router.Get("/users", h.ListUsers)
	router.Put("/users/:id/ban", h.SetUserBan)

	router.Post("/tasks", h.CreateTask)
	router.Delete("/tasks/:id", h.DeactivateTask)
	router.Get("/proofs", h.ListPendingProofs)
	router.Post("/proofs/:id/review", h.ReviewProof)

	router.Get("/stats", h.GetStats)
}
