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

// SaveFeedback writes a feedback document. When id is empty a new store key is
// allocated; otherwise the document at that key is overwritten (the retake
// path). Returns the key the document ended up under.
func (s *Store) SaveFeedback(ctx context.Context, id string, fb models.Feedback) (string, error) {
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}
	fb.ID = id

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection(FeedbackCollection).ReplaceOne(ctx, bson.M{"_id": id}, fb, opts); err != nil {
		return "", fmt.Errorf("failed to save feedback: %w", err)
	}
	return id, nil
}

// FeedbackByQuizAndUser returns the first feedback for a (quiz, user) pair, or
// nil when none exists. The store permits duplicates; this is the canonical
// limit-1 lookup.
func (s *Store) FeedbackByQuizAndUser(ctx context.Context, quizID, userID string) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.collection(FeedbackCollection).FindOne(ctx, bson.M{"quizId": quizID, "userId": userID}).Decode(&fb)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	return &fb, nil
}

// BestFeedback returns the highest-scoring feedback for a (quiz, user) pair.
// Duplicate attempts are allowed at write time; this read path masks them by
// picking the max totalScore.
func (s *Store) BestFeedback(ctx context.Context, quizID, userID string) (*models.Feedback, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "totalScore", Value: -1}})

	var fb models.Feedback
	err := s.collection(FeedbackCollection).FindOne(ctx, bson.M{"quizId": quizID, "userId": userID}, opts).Decode(&fb)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch best feedback: %w", err)
	}
	return &fb, nil
}

// FeedbackByID looks a feedback document up by its store key.
func (s *Store) FeedbackByID(ctx context.Context, id string) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.collection(FeedbackCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&fb)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	return &fb, nil
}

// FeedbackForQuiz returns every feedback recorded for a quiz, across all users.
func (s *Store) FeedbackForQuiz(ctx context.Context, quizID string) ([]models.Feedback, error) {
	cursor, err := s.collection(FeedbackCollection).Find(ctx, bson.M{"quizId": quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode quiz feedback: %w", err)
	}
	return feedbacks, nil
}

// FeedbackCountByUser counts attempts recorded for a user.
func (s *Store) FeedbackCountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := s.collection(FeedbackCollection).CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
