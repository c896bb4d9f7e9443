package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"knovo/models"
)

type fakeLeaderboardStore struct {
	quizzes   []models.Quiz
	feedbacks map[string][]models.Feedback
	users     map[string]models.User

	requestedIDs []string
}

func (s *fakeLeaderboardStore) FinalizedQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.quizzes, nil
}

func (s *fakeLeaderboardStore) FeedbackForQuiz(ctx context.Context, quizID string) ([]models.Feedback, error) {
	return s.feedbacks[quizID], nil
}

func (s *fakeLeaderboardStore) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	s.requestedIDs = ids
	return s.users, nil
}

func TestHighScoresCollapsesAttemptsAndCaps(t *testing.T) {
	aliceID := primitive.NewObjectID().Hex()
	bobID := primitive.NewObjectID().Hex()
	carolID := primitive.NewObjectID().Hex()
	daveID := primitive.NewObjectID().Hex()

	store := &fakeLeaderboardStore{
		quizzes: []models.Quiz{
			{ID: "quiz-1", Topic: "World Capitals", Type: models.QuizTypeMultipleChoice},
		},
		feedbacks: map[string][]models.Feedback{
			"quiz-1": {
				{UserID: aliceID, TotalScore: 50},
				{UserID: aliceID, TotalScore: 80},
				{UserID: bobID, TotalScore: 90},
				{UserID: carolID, TotalScore: 70},
				{UserID: daveID, TotalScore: 60},
			},
		},
		users: map[string]models.User{
			aliceID: {DisplayName: "alice"},
			bobID:   {DisplayName: "bob"},
		},
	}

	service := NewLeaderboardService(store)
	scores, err := service.HighScores(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scores) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(scores))
	}
	top := scores[0].TopScorers
	if len(top) != 3 {
		t.Fatalf("expected 3 scorers, got %d", len(top))
	}

	if top[0].UserID != bobID || top[0].Score != 90 {
		t.Errorf("unexpected leader: %+v", top[0])
	}
	if top[1].UserID != aliceID || top[1].Score != 80 {
		t.Errorf("duplicate attempts not collapsed to best: %+v", top[1])
	}
	if top[2].UserID != carolID {
		t.Errorf("unexpected third place: %+v", top[2])
	}

	if top[0].Name != "bob" || top[1].Name != "alice" {
		t.Errorf("names not resolved: %q, %q", top[0].Name, top[1].Name)
	}
	if top[2].Name != "Anonymous" {
		t.Errorf("expected fallback name for unknown user, got %q", top[2].Name)
	}
}

func TestHighScoresEmptyQuiz(t *testing.T) {
	store := &fakeLeaderboardStore{
		quizzes: []models.Quiz{
			{ID: "quiz-1", Topic: "Ocean Facts", Type: models.QuizTypeTrueFalse},
		},
		feedbacks: map[string][]models.Feedback{},
		users:     map[string]models.User{},
	}

	service := NewLeaderboardService(store)
	scores, err := service.HighScores(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scores) != 1 {
		t.Fatalf("expected the quiz to still appear, got %d entries", len(scores))
	}
	if len(scores[0].TopScorers) != 0 {
		t.Errorf("expected no scorers, got %+v", scores[0].TopScorers)
	}
}
