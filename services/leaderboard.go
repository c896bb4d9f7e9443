package services

import (
	"context"
	"fmt"
	"sort"

	"knovo/models"
)

// topScorersPerQuiz caps how many entries each quiz contributes.
const topScorersPerQuiz = 3

// LeaderboardStore is the slice of the document store the leaderboard reads.
type LeaderboardStore interface {
	FinalizedQuizzes(ctx context.Context) ([]models.Quiz, error)
	FeedbackForQuiz(ctx context.Context, quizID string) ([]models.Feedback, error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}

// TopScorer is one leaderboard entry for a quiz.
type TopScorer struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// QuizHighScores is a quiz together with its best scorers.
type QuizHighScores struct {
	QuizID     string      `json:"quizId"`
	Topic      string      `json:"topic"`
	Type       string      `json:"type"`
	TopScorers []TopScorer `json:"topScorers"`
}

// LeaderboardService assembles high scores across all finalized quizzes.
type LeaderboardService struct {
	store LeaderboardStore
}

func NewLeaderboardService(store LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// HighScores returns every finalized quiz with its top scorers. Each user
// counts once per quiz with their best attempt; duplicate feedback records
// are masked here the same way the best-feedback read path masks them.
func (s *LeaderboardService) HighScores(ctx context.Context) ([]QuizHighScores, error) {
	quizzes, err := s.store.FinalizedQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quizzes: %w", err)
	}

	results := make([]QuizHighScores, 0, len(quizzes))
	userIDSet := make(map[string]struct{})

	for _, quiz := range quizzes {
		feedbacks, err := s.store.FeedbackForQuiz(ctx, quiz.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load feedback for quiz %s: %w", quiz.ID, err)
		}

		scorers := bestScorePerUser(feedbacks)
		if len(scorers) > topScorersPerQuiz {
			scorers = scorers[:topScorersPerQuiz]
		}
		for _, scorer := range scorers {
			userIDSet[scorer.UserID] = struct{}{}
		}

		results = append(results, QuizHighScores{
			QuizID:     quiz.ID,
			Topic:      quiz.Topic,
			Type:       quiz.Type,
			TopScorers: scorers,
		})
	}

	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	users, err := s.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scorer names: %w", err)
	}

	for i := range results {
		for j := range results[i].TopScorers {
			scorer := &results[i].TopScorers[j]
			if user, ok := users[scorer.UserID]; ok && user.DisplayName != "" {
				scorer.Name = user.DisplayName
			} else {
				scorer.Name = "Anonymous"
			}
		}
	}

	return results, nil
}

// bestScorePerUser collapses duplicate attempts to each user's highest score
// and orders the result descending, ties broken by user id for stability.
func bestScorePerUser(feedbacks []models.Feedback) []TopScorer {
	best := make(map[string]float64)
	for _, fb := range feedbacks {
		if score, ok := best[fb.UserID]; !ok || fb.TotalScore > score {
			best[fb.UserID] = fb.TotalScore
		}
	}

	scorers := make([]TopScorer, 0, len(best))
	for userID, score := range best {
		scorers = append(scorers, TopScorer{UserID: userID, Score: score})
	}
	sort.Slice(scorers, func(i, j int) bool {
		if scorers[i].Score != scorers[j].Score {
			return scorers[i].Score > scorers[j].Score
		}
		return scorers[i].UserID < scorers[j].UserID
	})
	return scorers
}
