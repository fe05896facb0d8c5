package whopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/pkg/errors"
)

// Client talks to the external membership provider. The provider owns the
// whole identity story; we only read membership state.
type Client interface {
	GetMe(ctx context.Context, accessToken string) (*Me, error)
	GetMembership(ctx context.Context, accessToken, membershipID string) (*Membership, error)
}

type Me struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type Membership struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
	// Status is one of active, trialing, past_due, completed, canceled,
	// expired, unresolved.
	Status string `json:"status"`
}

// Active reports whether the membership grants access right now.
func (m *Membership) Active() bool {
	return m.Valid || m.Status == "active" || m.Status == "trialing" || m.Status == "completed"
}

type WhopClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &WhopClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *WhopClient) GetMe(ctx context.Context, accessToken string) (*Me, error) {
	me := &Me{}
	if err := c.get(ctx, c.Cfg.Membership.URL+"/me", accessToken, me); err != nil {
		return nil, err
	}
	return me, nil
}

func (c *WhopClient) GetMembership(ctx context.Context, accessToken, membershipID string) (*Membership, error) {
	membership := &Membership{}
	url := fmt.Sprintf("%s/memberships/%s", c.Cfg.Membership.URL, membershipID)
	if err := c.get(ctx, url, accessToken, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (c *WhopClient) get(ctx context.Context, url, accessToken string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "membership provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read membership response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("membership provider returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, "failed to decode membership response")
	}

	return nil
}
