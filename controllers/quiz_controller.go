package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knovo/db"
)

// QuizController serves the quiz read paths. Quiz generation happens in a
// separate pipeline; this service only reads what that pipeline finalized.
type QuizController struct {
	Store *db.Store
}

func NewQuizController(store *db.Store) *QuizController {
	return &QuizController{Store: store}
}

// GetMyQuizzes returns the quizzes generated by the session user, newest first.
func (q *QuizController) GetMyQuizzes(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	quizzes, err := q.Store.QuizzesByUserID(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quizzes"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetLatestQuizzes returns recent finalized quizzes from other users, for the
// home feed.
func (q *QuizController) GetLatestQuizzes(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	quizzes, err := q.Store.LatestQuizzes(ctx, userID, 5)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest quizzes"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetQuiz returns a single quiz by id.
func (q *QuizController) GetQuiz(ctx *gin.Context) {
	quizID := ctx.Param("id")
	if quizID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Quiz id is required"})
		return
	}

	quiz, err := q.Store.QuizByID(ctx, quizID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quiz"})
		return
	}
	if quiz == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quiz": quiz})
}
