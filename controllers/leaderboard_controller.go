package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"knovo/services"
)

// LeaderboardController serves the cross-quiz high-score listing.
type LeaderboardController struct {
	Service *services.LeaderboardService
}

func NewLeaderboardController(service *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Service: service}
}

func (l *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	scores, err := l.Service.HighScores(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"leaderboard": scores})
}
