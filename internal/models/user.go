package models

import "gorm.io/gorm"

// Roles a user can hold. Editors manage content, admins also manage users and the cache.
const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// User represents an account that can sign in to the back-office.
type User struct {
	gorm.Model
	Name         string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// CanEdit reports whether role may use the content back-office.
func CanEdit(role string) bool {
	return role == RoleEditor || role == RoleAdmin
}
