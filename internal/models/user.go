package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/id"
)

type User struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Bio        string    `json:"bio,omitempty"`
	Image      string    `json:"image,omitempty"`
	Location   string    `json:"location,omitempty"`
	Portfolio  string    `json:"portfolio,omitempty"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	return assignID(&u.ID, id.PrefixUser)
}

// Providers an Account can be linked with.
const (
	ProviderCredentials = "credentials"
	ProviderGitHub      = "github"
	ProviderGoogle      = "google"
)

// Account links a User to a sign-in provider. Credential accounts carry a
// bcrypt password hash and use the email as provider account id.
type Account struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	UserID            string    `gorm:"index;not null" json:"user_id"`
	User              *User     `gorm:"foreignKey:UserID" json:"-"`
	Name              string    `gorm:"not null" json:"name"`
	Image             string    `json:"image,omitempty"`
	Password          string    `json:"-"`
	Provider          string    `gorm:"not null;uniqueIndex:idx_accounts_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"not null;uniqueIndex:idx_accounts_provider_account" json:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	return assignID(&a.ID, id.PrefixAccount)
}

func assignID(dst *string, prefix string) error {
	if *dst != "" {
		return nil
	}
	generated, err := id.Generate(prefix)
	if err != nil {
		return err
	}
	*dst = generated
	return nil
}
