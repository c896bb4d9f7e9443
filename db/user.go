package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"knovo/models"
)

// userBatchSize caps how many identifiers go into one containment query.
// Mirrors the batched "in" limit of the upstream document store; callers
// chunk their id lists accordingly.
const userBatchSize = 10

// UserByEmail fetches a user by email, or nil when none exists.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection(UserCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UserByID fetches a user by its hex id.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	var user models.User
	err = s.collection(UserCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UsersByIDs resolves a set of user hex ids to user documents, issuing one
// containment query per chunk of at most userBatchSize ids. Unknown or
// malformed ids are skipped.
func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))

	for _, chunk := range chunkIDs(ids, userBatchSize) {
		objectIDs := make([]primitive.ObjectID, 0, len(chunk))
		for _, id := range chunk {
			objectID, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				continue
			}
			objectIDs = append(objectIDs, objectID)
		}
		if len(objectIDs) == 0 {
			continue
		}

		cursor, err := s.collection(UserCollection).Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch users: %w", err)
		}

		var batch []models.User
		if err := cursor.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("failed to decode users: %w", err)
		}
		for _, user := range batch {
			users[user.ID.Hex()] = user
		}
	}

	return users, nil
}

// UpsertUser creates or refreshes the user document keyed by email and
// returns the stored user.
func (s *Store) UpsertUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	set := bson.M{
		"displayName": user.DisplayName,
	}
	if user.PasswordHash != "" {
		set["passwordHash"] = user.PasswordHash
	}
	if user.AvatarURL != "" {
		set["avatarUrl"] = user.AvatarURL
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"email":     user.Email,
			"createdAt": user.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.collection(UserCollection).UpdateOne(ctx, bson.M{"email": user.Email}, update, opts); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return s.UserByEmail(ctx, user.Email)
}

// chunkIDs splits ids into slices of at most size elements, preserving order.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
