package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"knovo/db"
	"knovo/models"
	"knovo/services"
)

// feedbackTimeout bounds one pipeline run: a single grading call plus a single
// store write.
const feedbackTimeout = 2 * time.Minute

// FeedbackController exposes the feedback pipeline over HTTP and serves the
// feedback read paths.
type FeedbackController struct {
	Store   *db.Store
	Service *services.FeedbackService
}

func NewFeedbackController(store *db.Store, service *services.FeedbackService) *FeedbackController {
	return &FeedbackController{Store: store, Service: service}
}

type CreateFeedbackRequest struct {
	QuizID     string                   `json:"quizId" binding:"required"`
	Transcript []models.TranscriptEntry `json:"transcript"`
	FeedbackID string                   `json:"feedbackId"`
}

// CreateFeedback grades a submitted transcript and stores the result. The quiz
// type is resolved server-side from the quiz document; an unresolvable quiz
// still grades with type "unknown".
func (f *FeedbackController) CreateFeedback(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	var request CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input", "message": err.Error()})
		return
	}

	runCtx, cancel := context.WithTimeout(ctx.Request.Context(), feedbackTimeout)
	defer cancel()

	quizType := ""
	if quiz, err := f.Store.QuizByID(runCtx, request.QuizID); err == nil && quiz != nil {
		quizType = quiz.Type
	}

	result := f.Service.CreateFeedback(runCtx, services.CreateFeedbackParams{
		QuizID:     request.QuizID,
		UserID:     userID,
		QuizType:   quizType,
		Transcript: request.Transcript,
		FeedbackID: request.FeedbackID,
	})
	if !result.Success {
		status := feedbackErrorStatus(result.Err)
		ctx.JSON(status, gin.H{"success": false, "error": result.Err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "feedbackId": result.FeedbackID})
}

// GetFeedback returns one feedback for the session user on a quiz. This is the
// limit-1 lookup; duplicates are possible and whichever matches first wins.
func (f *FeedbackController) GetFeedback(ctx *gin.Context) {
	f.serveFeedback(ctx, f.Store.FeedbackByQuizAndUser)
}

// GetBestFeedback returns the session user's highest-scoring feedback on a
// quiz, masking duplicate attempts.
func (f *FeedbackController) GetBestFeedback(ctx *gin.Context) {
	f.serveFeedback(ctx, f.Store.BestFeedback)
}

// GetResults returns the per-question answer-key rows for the session user's
// best attempt. Records predating the structured field fall back to parsing
// the finalAssessment text.
func (f *FeedbackController) GetResults(ctx *gin.Context) {
	userID := ctx.GetString("userId")
	quizID := ctx.Param("id")

	fb, err := f.Store.BestFeedback(ctx, quizID, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}
	if fb == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No feedback found for this quiz"})
		return
	}

	rows := fb.AnswerKeyRows
	if len(rows) == 0 {
		rows = services.ParseAnswerKeyResults(fb.FinalAssessment)
	}
	if rows == nil {
		rows = []models.AnswerKeyRow{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"quizId":     quizID,
		"totalScore": fb.TotalScore,
		"results":    rows,
	})
}

type feedbackLookup func(ctx context.Context, quizID, userID string) (*models.Feedback, error)

func (f *FeedbackController) serveFeedback(ctx *gin.Context, lookup feedbackLookup) {
	userID := ctx.GetString("userId")
	quizID := ctx.Param("id")

	fb, err := lookup(ctx, quizID, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}
	if fb == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No feedback found for this quiz"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"feedback": fb})
}

// feedbackErrorStatus maps a pipeline failure kind to an HTTP status.
func feedbackErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidTranscript):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrGradingUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
