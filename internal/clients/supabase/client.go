package supabase

import (
	"context"
	"strings"

	"github.com/maxaizer/jobmarket/internal/domain/models"
	supa "github.com/nedpals/supabase-go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const profilesTable = "profiles"

// Client talks to GoTrue for credentials and to PostgREST for the profiles table.
type Client struct {
	client  *supa.Client
	limiter *rate.Limiter
}

func NewClient(url, key string) (*Client, error) {
	if url == "" || key == "" {
		return nil, errors.New("supabase url and key are required")
	}

	return &Client{
		client:  supa.CreateClient(url, key),
		limiter: rate.NewLimiter(10, 1),
	}, nil
}

func (c *Client) SetRateLimit(limit rate.Limit, burst int) {
	c.limiter.SetLimit(limit)
	c.limiter.SetBurst(burst)
}

// profile is a row of the profiles table.
type profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func toProfile(identity models.Identity) profile {
	return profile{
		ID:     identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   string(identity.Role),
		Phone:  identity.Phone,
		Avatar: identity.Avatar,
	}
}

func (p profile) identity() (models.Identity, error) {
	role, err := models.ToRole(p.Role)
	if err != nil {
		return models.Identity{}, errors.Wrapf(models.ErrRemote, "profile %s has role %q", p.ID, p.Role)
	}

	return models.Identity{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Role:   role,
		Phone:  p.Phone,
		Avatar: p.Avatar,
	}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (models.AuthSession, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.AuthSession{}, err
	}

	details, err := c.client.Auth.SignIn(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		return models.AuthSession{}, classify(err)
	}

	return models.AuthSession{UserID: details.User.ID, AccessToken: details.AccessToken}, nil
}

// SignUp creates the credential and signs in right away, so the caller gets a
// usable access token even when the project does not auto-confirm emails.
func (c *Client) SignUp(ctx context.Context, email, password string) (models.AuthSession, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.AuthSession{}, err
	}

	credentials := supa.UserCredentials{Email: email, Password: password}
	if _, err := c.client.Auth.SignUp(ctx, credentials); err != nil {
		return models.AuthSession{}, classify(err)
	}

	return c.SignIn(ctx, email, password)
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := c.client.Auth.SignOut(ctx, accessToken); err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) ValidateSession(ctx context.Context, accessToken string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	user, err := c.client.Auth.User(ctx, accessToken)
	if err != nil {
		if errors.Is(classify(err), models.ErrInvalidCredentials) {
			return "", models.ErrNotAuthenticated
		}
		return "", classify(err)
	}
	if user == nil || user.ID == "" {
		return "", models.ErrNotAuthenticated
	}
	return user.ID, nil
}

func (c *Client) CreateProfile(ctx context.Context, identity models.Identity) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var rows []profile
	if err := c.client.DB.From(profilesTable).Insert(toProfile(identity)).Execute(&rows); err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*models.Identity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var rows []profile
	if err := c.client.DB.From(profilesTable).Select("*").Eq("id", userID).Execute(&rows); err != nil {
		return nil, classify(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	identity, err := rows[0].identity()
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *Client) UpdateProfile(ctx context.Context, identity models.Identity) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	changes := map[string]string{
		"name":   identity.Name,
		"phone":  identity.Phone,
		"avatar": identity.Avatar,
	}

	var rows []profile
	if err := c.client.DB.From(profilesTable).Update(changes).Eq("id", identity.ID).Execute(&rows); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps GoTrue and PostgREST failures onto the domain sentinels by
// their message, which is the only part both APIs reliably fill in.
func classify(err error) error {
	message := strings.ToLower(err.Error())

	switch {
	case strings.Contains(message, "already registered"),
		strings.Contains(message, "already exists"),
		strings.Contains(message, "duplicate key"):
		return errors.Wrap(models.ErrDuplicateEmail, err.Error())
	case strings.Contains(message, "invalid login"),
		strings.Contains(message, "invalid grant"),
		strings.Contains(message, "invalid_grant"),
		strings.Contains(message, "invalid jwt"),
		strings.Contains(message, "jwt expired"),
		strings.Contains(message, "email not confirmed"):
		return errors.Wrap(models.ErrInvalidCredentials, err.Error())
	default:
		return errors.Wrap(models.ErrRemote, err.Error())
	}
}
