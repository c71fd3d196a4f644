package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Profile is the current user as reported by the identity endpoint.
type Profile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// Profile fetches the current user from the identity endpoint.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	response, err := c.Get(ctx, ProfileEndpoint)
	if err != nil {
		return Profile{}, err
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("session: identity endpoint returned %d", response.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(response.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("session: decode profile: %w", err)
	}

	if profile.Email == "" {
		return Profile{}, errors.New("session: profile has no email")
	}

	return profile, nil
}
