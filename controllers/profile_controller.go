package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knovo/db"
)

// ProfileController serves the session user's profile with attempt stats.
type ProfileController struct {
	Store *db.Store
}

func NewProfileController(store *db.Store) *ProfileController {
	return &ProfileController{Store: store}
}

func (p *ProfileController) FetchProfile(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	user, err := p.Store.UserByID(ctx, userID)
	if err != nil || user == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	attempts, err := p.Store.FeedbackCountByUser(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	quizzes, err := p.Store.QuizzesByUserID(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":           user.ID.Hex(),
		"email":        user.Email,
		"displayName":  user.DisplayName,
		"avatarUrl":    user.AvatarURL,
		"quizAttempts": attempts,
		"quizzesOwned": len(quizzes),
		"memberSince":  user.CreatedAt,
	})
}
