package routes

import (
	"github.com/gin-gonic/gin"

	"knovo/controllers"
	"knovo/middlewares"
	"knovo/websocket"
)

// Handlers bundles the controllers the router dispatches to. Everything is
// constructed in main and injected here.
type Handlers struct {
	Auth        *controllers.AuthController
	Quiz        *controllers.QuizController
	Feedback    *controllers.FeedbackController
	Leaderboard *controllers.LeaderboardController
	Profile     *controllers.ProfileController
	Call        *websocket.CallGateway
}

// Setup registers every route on the router. Public routes cover auth; the
// rest sit behind the session JWT middleware. The voice call gateway
// authenticates via query token instead because browsers cannot set headers
// on a WebSocket upgrade.
func Setup(router *gin.Engine, h *Handlers) {
	router.POST("/signup", h.Auth.SignUp)
	router.POST("/verifyEmail", h.Auth.VerifyEmail)
	router.POST("/login", h.Auth.Login)
	router.POST("/forgotPassword", h.Auth.ForgotPassword)
	router.POST("/confirmForgotPassword", h.Auth.VerifyForgotPassword)
	router.POST("/verifyToken", h.Auth.VerifyToken)

	router.GET("/ws/call", h.Call.Handle)

	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/user/fetchprofile", h.Profile.FetchProfile)
		auth.GET("/leaderboard", h.Leaderboard.GetLeaderboard)

		auth.GET("/quizzes", h.Quiz.GetMyQuizzes)
		auth.GET("/quizzes/latest", h.Quiz.GetLatestQuizzes)
		auth.GET("/quiz/:id", h.Quiz.GetQuiz)

		auth.POST("/api/feedback", h.Feedback.CreateFeedback)
		auth.GET("/quiz/:id/feedback", h.Feedback.GetFeedback)
		auth.GET("/quiz/:id/feedback/best", h.Feedback.GetBestFeedback)
		auth.GET("/quiz/:id/results", h.Feedback.GetResults)
	}
}
