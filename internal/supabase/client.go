package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"ndt-portal-backend/internal/config"
)

// Client wraps the hosted-backend SDK. Staff sign-in goes through the hosted
// auth service; everything else uses the direct database and storage clients.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// SignIn authenticates a staff account against the hosted auth service and
// returns the auth user id.
func (c *Client) SignIn(email, password string) (string, error) {
	session, err := c.Supabase.SignInWithEmailPassword(email, password)
	if err != nil {
		return "", fmt.Errorf("sign in failed: %w", err)
	}
	return session.User.ID.String(), nil
}
