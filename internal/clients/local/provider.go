package local

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type credentialStore interface {
	Add(ctx context.Context, credential repositories.Credential) error
	GetByEmail(ctx context.Context, email string) (*repositories.Credential, error)
	Remove(ctx context.Context, userID string) error
}

type profileStore interface {
	Create(ctx context.Context, identity models.Identity) error
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	Update(ctx context.Context, identity models.Identity) error
}

// Provider is an auth backend kept entirely in the service database.
// Access tokens live in memory only and expire after tokenTTL.
type Provider struct {
	credentials credentialStore
	profiles    profileStore
	tokens      *gocache.Cache
	hashCost    int
	signUpMu    sync.Mutex
}

func NewProvider(credentials credentialStore, profiles profileStore, tokenTTL time.Duration) *Provider {
	return &Provider{
		credentials: credentials,
		profiles:    profiles,
		tokens:      gocache.New(tokenTTL, tokenTTL),
		hashCost:    bcrypt.DefaultCost,
	}
}

// WithHashCost lowers bcrypt work, for tests.
func (p *Provider) WithHashCost(cost int) *Provider {
	p.hashCost = cost
	return p
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (models.AuthSession, error) {
	credential, err := p.credentials.GetByEmail(ctx, email)
	if err != nil {
		return models.AuthSession{}, errors.Wrap(models.ErrRemote, err.Error())
	}
	if credential == nil {
		return models.AuthSession{}, models.ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword(credential.PasswordHash, []byte(password)); err != nil {
		return models.AuthSession{}, models.ErrInvalidCredentials
	}

	return p.issue(credential.UserID), nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (models.AuthSession, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return models.AuthSession{}, errors.Wrap(models.ErrRemote, err.Error())
	}

	p.signUpMu.Lock()
	defer p.signUpMu.Unlock()

	existing, err := p.credentials.GetByEmail(ctx, email)
	if err != nil {
		return models.AuthSession{}, errors.Wrap(models.ErrRemote, err.Error())
	}
	if existing != nil {
		return models.AuthSession{}, models.ErrDuplicateEmail
	}

	credential := repositories.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err = p.credentials.Add(ctx, credential); err != nil {
		return models.AuthSession{}, errors.Wrap(models.ErrRemote, err.Error())
	}

	return p.issue(credential.UserID), nil
}

// EnsureAccount creates a credential bound to an existing identity id unless
// the email is already registered.
func (p *Provider) EnsureAccount(ctx context.Context, userID, email, password string) error {
	existing, err := p.credentials.GetByEmail(ctx, email)
	if err != nil || existing != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return err
	}
	return p.credentials.Add(ctx, repositories.Credential{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
}

func (p *Provider) SignOut(_ context.Context, accessToken string) error {
	p.tokens.Delete(accessToken)
	return nil
}

func (p *Provider) ValidateSession(_ context.Context, accessToken string) (string, error) {
	if userID, found := p.tokens.Get(accessToken); found {
		return userID.(string), nil
	}
	return "", models.ErrNotAuthenticated
}

// RevokeCredential removes a credential created by SignUp. Outstanding tokens
// of that user stop validating.
func (p *Provider) RevokeCredential(ctx context.Context, userID string) error {
	for token, item := range p.tokens.Items() {
		if item.Object.(string) == userID {
			p.tokens.Delete(token)
		}
	}

	if err := p.credentials.Remove(ctx, userID); err != nil {
		return errors.Wrap(models.ErrRemote, err.Error())
	}
	return nil
}

func (p *Provider) CreateProfile(ctx context.Context, identity models.Identity) error {
	if err := p.profiles.Create(ctx, identity); err != nil {
		return errors.Wrap(models.ErrRemote, err.Error())
	}
	return nil
}

func (p *Provider) GetProfile(ctx context.Context, userID string) (*models.Identity, error) {
	identity, err := p.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(models.ErrRemote, err.Error())
	}
	return identity, nil
}

func (p *Provider) UpdateProfile(ctx context.Context, identity models.Identity) error {
	if err := p.profiles.Update(ctx, identity); err != nil {
		return errors.Wrap(models.ErrRemote, err.Error())
	}
	return nil
}

func (p *Provider) issue(userID string) models.AuthSession {
	token := uuid.NewString()
	p.tokens.SetDefault(token, userID)
	return models.AuthSession{UserID: userID, AccessToken: token}
}
