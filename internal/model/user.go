package model

import (
	"time"
)

// Role is the authorization role carried in access tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account that owns wellness records.
type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:USER"`
	Active       bool      `json:"active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserContact is what the wellness engine needs to know about a user.
type UserContact struct {
	ID                uint   `json:"id"`
	ContactIdentifier string `json:"contact_identifier"`
	DisplayName       string `json:"display_name"`
}

// Contact projects u onto UserContact. The e-mail address is the contact identifier.
func (u User) Contact() UserContact {
	return UserContact{ID: u.ID, ContactIdentifier: u.Email, DisplayName: u.Name}
}
