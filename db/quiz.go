package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"knovo/models"
)

// QuizByID fetches a quiz by its store key, or nil when it does not exist.
func (s *Store) QuizByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.collection(QuizCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz: %w", err)
	}
	return &quiz, nil
}

// QuizzesByUserID returns the quizzes a user generated, newest first.
func (s *Store) QuizzesByUserID(ctx context.Context, userID string) ([]models.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(QuizCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quizzes: %w", err)
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode quizzes: %w", err)
	}
	return quizzes, nil
}

// LatestQuizzes returns recent finalized quizzes generated by other users.
func (s *Store) LatestQuizzes(ctx context.Context, viewerID string, limit int64) ([]models.Quiz, error) {
	if limit <= 0 {
		limit = 5
	}
	filter := bson.M{
		"finalized": true,
		"userId":    bson.M{"$ne": viewerID},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := s.collection(QuizCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest quizzes: %w", err)
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode latest quizzes: %w", err)
	}
	return quizzes, nil
}

// FinalizedQuizzes returns every finalized quiz, for the leaderboard.
func (s *Store) FinalizedQuizzes(ctx context.Context) ([]models.Quiz, error) {
	cursor, err := s.collection(QuizCollection).Find(ctx, bson.M{"finalized": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch finalized quizzes: %w", err)
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode finalized quizzes: %w", err)
	}
	return quizzes, nil
}

// InsertQuiz writes a quiz document, allocating a key when none is set.
// Used by seeding; the generation pipeline proper lives outside this service.
func (s *Store) InsertQuiz(ctx context.Context, quiz models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.collection(QuizCollection).InsertOne(ctx, quiz); err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// QuizCount counts all quizzes in the store.
func (s *Store) QuizCount(ctx context.Context) (int64, error) {
	count, err := s.collection(QuizCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}
