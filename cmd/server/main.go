package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"knovo/config"
	"knovo/controllers"
	"knovo/db"
	"knovo/routes"
	"knovo/services"
	"knovo/utils"
	"knovo/websocket"
)

func main() {
	// Secrets usually arrive via .env in development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret, cfg.JWT.Expiry)

	database, err := db.Connect(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	store := db.NewStore(database)

	grader, err := services.NewGeminiGrader(context.Background(), cfg.Gemini.ApiKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to initialize grader: %v", err)
	}
	defer grader.Close()

	feedbackService := services.NewFeedbackService(store, grader)
	leaderboardService := services.NewLeaderboardService(store)

	utils.SeedDemoQuizzes(store)

	router := setupRouter(&routes.Handlers{
		Auth:        controllers.NewAuthController(cfg, store),
		Quiz:        controllers.NewQuizController(store),
		Feedback:    controllers.NewFeedbackController(store, feedbackService),
		Leaderboard: controllers.NewLeaderboardController(leaderboardService),
		Profile:     controllers.NewProfileController(store),
		Call:        websocket.NewCallGateway(store, feedbackService),
	})

	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(handlers *routes.Handlers) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	routes.Setup(router, handlers)

	return router
}
