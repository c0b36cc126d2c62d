package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, notFound(err, "User")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, notFound(err, "User")
	}
	return &u, nil
}

// UsernameTaken reports whether a user already has username.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// UpdateUserProfile sets the name and image of a user.
func (s *Store) UpdateUserProfile(ctx context.Context, id, name, image string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "image": image}).Error
}

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// FindAccount returns the account linked to a provider identity, or nil.
func (s *Store) FindAccount(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountByProviderAccountID loads the account with providerAccountID.
func (s *Store) GetAccountByProviderAccountID(ctx context.Context, providerAccountID string) (*models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).Where("provider_account_id = ?", providerAccountID).
		Order("created_at").Take(&a).Error; err != nil {
		return nil, notFound(err, "Account")
	}
	return &a, nil
}

// ListAccounts returns the accounts linked to a user.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	accounts := []models.Account{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&accounts).Error
	return accounts, err
}
