package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sign-in providers
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"uid"`
	Email         string             `bson:"email" json:"email"`
	DisplayName   string             `bson:"displayName" json:"displayName"`
	PhotoURL      string             `bson:"photoURL" json:"photoURL"`
	PasswordHash  string             `bson:"passwordHash,omitempty" json:"-"` // Bcrypt hash - never expose
	Provider      string             `bson:"provider" json:"provider"`
	GoogleSubject string             `bson:"googleSubject,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) GetID() primitive.ObjectID   { return u.ID }
func (u *User) SetID(id primitive.ObjectID) { u.ID = id }

// UserResponse is the public user shape (no credentials)
type UserResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// ToResponse converts User to UserResponse (excludes hash)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UID:         u.ID.Hex(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

// ProfileUpdate carries the profile fields to change; nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// Credentials is the email/password sign-up and sign-in body
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by every successful sign-in
type AuthResult struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
