package utils

import (
	"context"
	"log"
	"time"

	"knovo/db"
	"knovo/models"
)

// SeedDemoQuizzes populates the quizzes collection with a few finalized demo
// quizzes when it is empty, so the read paths have something to serve in a
// fresh environment. Never touches a non-empty collection.
func SeedDemoQuizzes(store *db.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := store.QuizCount(ctx)
	if err != nil {
		log.Printf("Skipping quiz seeding: %v", err)
		return
	}
	if count > 0 {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	demos := []models.Quiz{
		{
			Topic:      "World Capitals",
			Type:       models.QuizTypeMultipleChoice,
			Difficulty: "easy",
			Questions: []string{
				"What is the capital of France? (A) Berlin (B) Madrid (C) Paris (D) Rome",
				"What is the capital of Japan? (A) Osaka (B) Tokyo (C) Kyoto (D) Nagoya",
				"What is the capital of Canada? (A) Toronto (B) Vancouver (C) Montreal (D) Ottawa",
			},
			UserID:    "seed",
			Finalized: true,
			CreatedAt: now,
		},
		{
			Topic:      "Ocean Facts",
			Type:       models.QuizTypeTrueFalse,
			Difficulty: "medium",
			Questions: []string{
				"The Pacific is the largest ocean. True or False",
				"Sound travels slower in water than in air. True or False",
			},
			UserID:    "seed",
			Finalized: true,
			CreatedAt: now,
		},
		{
			Topic:      "Ecology",
			Type:       models.QuizTypeVerbalAnswer,
			Difficulty: "hard",
			Questions: []string{
				"Explain the importance of biodiversity in ecosystems.",
				"Describe how energy flows through a food web.",
			},
			UserID:    "seed",
			Finalized: true,
			CreatedAt: now,
		},
	}

	for _, quiz := range demos {
		if err := store.InsertQuiz(ctx, quiz); err != nil {
			log.Printf("Failed to seed quiz %q: %v", quiz.Topic, err)
			return
		}
	}
	log.Printf("Seeded %d demo quizzes", len(demos))

	if _, err := store.UpsertUser(ctx, models.User{
		Email:       "demo@knovo.dev",
		DisplayName: "demo",
	}); err != nil {
		log.Printf("Failed to seed demo user: %v", err)
	}
}
