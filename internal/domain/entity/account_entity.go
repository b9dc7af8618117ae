package entity

import (
	"time"
)

// Account is the aggregate root for the authentication domain
// Passwords are stored as bcrypt hashes in PasswordHash.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCustomer builds an unsaved self-registered account.
func NewCustomer(name, email, passwordHash string) *Account {
	return &Account{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleCustomer,
	}
}
