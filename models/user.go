package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a user entity. PasswordHash is only set for local accounts;
// Cognito-backed accounts leave it empty.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
