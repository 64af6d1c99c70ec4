package entity

import (
	"time"
)

const (
	RoleSeeker   = "seeker"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID       string   `json:"id" firestore:"id"`
	Email    string   `json:"email" firestore:"email"`
	Username string   `json:"username" firestore:"username"`
	Phone    string   `json:"phone,omitempty" firestore:"phone,omitempty"`
	Roles    []string `json:"roles" firestore:"roles"`

	IsBlocked bool `json:"is_blocked" firestore:"isBlocked"`
	IsActive  bool `json:"is_active" firestore:"isActive"`

	AvatarURL string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	LastSeen  time.Time `json:"last_seen" firestore:"lastSeen"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
