package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the service.
const (
	QuizCollection     = "quizzes"
	FeedbackCollection = "feedback"
	UserCollection     = "users"
)

// Store wraps the Mongo database handle with the query paths the service
// needs. It is constructed once in main and passed to whoever needs it.
type Store struct {
	db *mongo.Database
}

func NewStore(database *mongo.Database) *Store {
	return &Store{db: database}
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// extractDBName parses the database name from the URI, defaulting to "knovo"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "knovo"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "knovo"
}

// Connect establishes a connection to MongoDB using the provided URI and
// returns the database handle.
func Connect(uri string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	return client.Database(dbName), nil
}
