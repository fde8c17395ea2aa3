package models

import "time"

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

// PublicUser is the shape returned to clients after signup/login.
type PublicUser struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{UserID: u.UserID, Name: u.Name, Email: u.Email}
}
