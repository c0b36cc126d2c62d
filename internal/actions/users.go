package actions

import (
	"context"
	"errors"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

type SignUpParams struct {
	Name     string `json:"name" validate:"required,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

func (p *SignUpParams) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

type SignInParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (p *SignInParams) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

type OAuthUser struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Image    string `json:"image" validate:"omitempty,url"`
}

type SignInWithOAuthParams struct {
	Provider          string    `json:"provider" validate:"required,oneof=github google"`
	ProviderAccountID string    `json:"provider_account_id" validate:"required"`
	User              OAuthUser `json:"user"`
}

func (p *SignInWithOAuthParams) Normalize() {
	p.User.Email = strings.ToLower(strings.TrimSpace(p.User.Email))
	p.User.Name = strings.TrimSpace(p.User.Name)
}

type CreateAccountParams struct {
	Name              string `json:"name" validate:"required"`
	Image             string `json:"image" validate:"omitempty,url"`
	Password          string `json:"password" validate:"omitempty,min=6,max=100"`
	Provider          string `json:"provider" validate:"required,oneof=credentials github google"`
	ProviderAccountID string `json:"provider_account_id" validate:"required"`
}

type GetAccountByProviderParams struct {
	ProviderAccountID string `json:"provider_account_id" validate:"required"`
}

type GetUserByEmailParams struct {
	Email string `json:"email" validate:"required,email"`
}

func (p *GetUserByEmailParams) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

type GetUserParams struct {
	UserID string `json:"user_id" validate:"required"`
}

// AuthPayload is returned by every sign-in flow.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type NoParams struct{}

// SignUp creates a user with a credentials account.
func (a *Actions) SignUp(ctx context.Context, p SignUpParams) response.Result[AuthPayload] {
	const op = "SignUp"

	ac, err := action.Run(a.validator, p, nil, action.Options{})
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	params := ac.Params

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}

	user := &models.User{Name: params.Name, Username: params.Username, Email: params.Email}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetUserByEmail(ctx, params.Email); err == nil {
			return apperrors.Forbidden("User already exists")
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		taken, err := tx.UsernameTaken(ctx, params.Username)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Forbidden("Username already exists")
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.CreateAccount(ctx, &models.Account{
			UserID:            user.ID,
			Name:              user.Name,
			Password:          hashed,
			Provider:          models.ProviderCredentials,
			ProviderAccountID: params.Email,
		})
	})
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}

	return a.issue(ctx, op, user, response.Created[AuthPayload])
}

// errInvalidCredentials is returned for every SignIn failure.
var errInvalidCredentials = apperrors.Unauthorized("Invalid credentials")

// SignIn checks a credentials account password.
func (a *Actions) SignIn(ctx context.Context, p SignInParams) response.Result[AuthPayload] {
	const op = "SignIn"

	ac, err := action.Run(a.validator, p, nil, action.Options{})
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}

	user, err := a.store.GetUserByEmail(ctx, ac.Params.Email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fail[AuthPayload](ctx, a, op, errInvalidCredentials.WithCause(err))
	}
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	account, err := a.store.FindAccount(ctx, models.ProviderCredentials, ac.Params.Email)
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	if account == nil {
		return fail[AuthPayload](ctx, a, op, errInvalidCredentials)
	}

	ok, err := auth.CheckPassword(account.Password, ac.Params.Password)
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	if !ok {
		return fail[AuthPayload](ctx, a, op, errInvalidCredentials)
	}

	return a.issue(ctx, op, user, response.OK[AuthPayload])
}

// SignInWithOAuth finds or creates the user behind a provider identity,
// refreshes its profile and links the provider account.
func (a *Actions) SignInWithOAuth(ctx context.Context, p SignInWithOAuthParams) response.Result[AuthPayload] {
	const op = "SignInWithOAuth"

	ac, err := action.Run(a.validator, p, nil, action.Options{})
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	params := ac.Params

	var user *models.User
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.GetUserByEmail(ctx, params.User.Email)
		switch {
		case err == nil:
			user = existing
			if user.Name != params.User.Name || user.Image != params.User.Image {
				if err := tx.UpdateUserProfile(ctx, user.ID, params.User.Name, params.User.Image); err != nil {
					return err
				}
				user.Name, user.Image = params.User.Name, params.User.Image
			}
		case errors.Is(err, apperrors.ErrNotFound):
			username, err := availableUsername(ctx, tx, params.User.Username)
			if err != nil {
				return err
			}
			user = &models.User{
				Name:     params.User.Name,
				Username: username,
				Email:    params.User.Email,
				Image:    params.User.Image,
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}

		account, err := tx.FindAccount(ctx, params.Provider, params.ProviderAccountID)
		if err != nil {
			return err
		}
		if account != nil {
			if account.UserID != user.ID {
				return apperrors.Forbidden("This account is linked to another user")
			}
			return nil
		}
		return tx.CreateAccount(ctx, &models.Account{
			UserID:            user.ID,
			Name:              params.User.Name,
			Image:             params.User.Image,
			Provider:          params.Provider,
			ProviderAccountID: params.ProviderAccountID,
		})
	})
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}

	return a.issue(ctx, op, user, response.OK[AuthPayload])
}

func (a *Actions) issue(ctx context.Context, op string, user *models.User, wrap func(AuthPayload) response.Result[AuthPayload]) response.Result[AuthPayload] {
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return fail[AuthPayload](ctx, a, op, err)
	}
	return wrap(AuthPayload{Token: token, User: user})
}

// CreateAccount links a new provider account to the caller.
func (a *Actions) CreateAccount(ctx context.Context, sess *auth.Session, p CreateAccountParams) response.Result[*models.Account] {
	const op = "CreateAccount"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[*models.Account](ctx, a, op, err)
	}
	params := ac.Params

	account := &models.Account{
		UserID:            ac.UserID(),
		Name:              params.Name,
		Image:             params.Image,
		Provider:          params.Provider,
		ProviderAccountID: params.ProviderAccountID,
	}
	if params.Password != "" {
		if account.Password, err = auth.HashPassword(params.Password); err != nil {
			return fail[*models.Account](ctx, a, op, err)
		}
	}

	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.FindAccount(ctx, params.Provider, params.ProviderAccountID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Forbidden("An account with the same provider already exists")
		}
		return tx.CreateAccount(ctx, account)
	})
	if err != nil {
		return fail[*models.Account](ctx, a, op, err)
	}
	return response.Created(account)
}

func (a *Actions) GetAccountByProvider(ctx context.Context, sess *auth.Session, p GetAccountByProviderParams) response.Result[*models.Account] {
	const op = "GetAccountByProvider"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[*models.Account](ctx, a, op, err)
	}

	account, err := a.store.GetAccountByProviderAccountID(ctx, ac.Params.ProviderAccountID)
	if err != nil {
		return fail[*models.Account](ctx, a, op, err)
	}
	return response.OK(account)
}

// ListAccounts returns the caller's linked accounts.
func (a *Actions) ListAccounts(ctx context.Context, sess *auth.Session) response.Result[[]models.Account] {
	const op = "ListAccounts"

	ac, err := action.Run(a.validator, NoParams{}, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[[]models.Account](ctx, a, op, err)
	}

	accounts, err := a.store.ListAccounts(ctx, ac.UserID())
	if err != nil {
		return fail[[]models.Account](ctx, a, op, err)
	}
	return response.OK(accounts)
}

func (a *Actions) GetUserByEmail(ctx context.Context, sess *auth.Session, p GetUserByEmailParams) response.Result[*models.User] {
	const op = "GetUserByEmail"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}

	user, err := a.store.GetUserByEmail(ctx, ac.Params.Email)
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}
	return response.OK(user)
}

func (a *Actions) GetUser(ctx context.Context, sess *auth.Session, p GetUserParams) response.Result[*models.User] {
	const op = "GetUser"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}

	user, err := a.store.GetUser(ctx, ac.Params.UserID)
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}
	return response.OK(user)
}

// Me returns the signed-in user.
func (a *Actions) Me(ctx context.Context, sess *auth.Session) response.Result[*models.User] {
	const op = "Me"

	ac, err := action.Run(a.validator, NoParams{}, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}

	user, err := a.store.GetUser(ctx, ac.UserID())
	if err != nil {
		return fail[*models.User](ctx, a, op, err)
	}
	return response.OK(user)
}

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify turns a display name into a username: accents are dropped,
// letters lowercased and every other run of characters becomes "_".
// "José Álvarez" becomes "jose_alvarez".
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func availableUsername(ctx context.Context, tx *store.Store, name string) (string, error) {
	username := Slugify(name)
	if len(username) < 3 {
		username = "user"
	}

	taken, err := tx.UsernameTaken(ctx, username)
	if err != nil || !taken {
		return username, err
	}

	suffix, err := gonanoid.Generate(usernameAlphabet, 6)
	if err != nil {
		return "", err
	}
	return username + "_" + suffix, nil
}
