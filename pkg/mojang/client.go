package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrNotFound means the username is not (or was not, at the requested
	// time) registered. Distinct from ErrUnavailable so callers can word
	// their replies differently.
	ErrNotFound = errors.New("profile not found")
	// ErrUnavailable means the API could not be reached or answered with a
	// server error.
	ErrUnavailable = errors.New("mojang api unavailable")
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12}$`)

// IsUUID reports whether s is a UUID, dashed or not.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	crafatarURL string
}

func NewClient(baseURL, crafatarURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		crafatarURL: crafatarURL,
	}
}

// Profile is a username/UUID pair as returned by the profile endpoint.
type Profile struct {
	Name string `json:"name"`
	UUID string `json:"id"`
}

// UUIDForName resolves the current holder of a username.
func (c *Client) UUIDForName(ctx context.Context, name string) (*Profile, error) {
	return c.fetchProfile(ctx, fmt.Sprintf("%s/users/profiles/minecraft/%s", c.baseURL, url.PathEscape(name)))
}

// UUIDForNameAt resolves the holder of a username at a unix timestamp.
// Zero asks for the original holder of the name.
func (c *Client) UUIDForNameAt(ctx context.Context, name string, at int64) (*Profile, error) {
	return c.fetchProfile(ctx, fmt.Sprintf("%s/users/profiles/minecraft/%s?at=%d", c.baseURL, url.PathEscape(name), at))
}

func (c *Client) fetchProfile(ctx context.Context, reqURL string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	return &profile, nil
}

// AvatarURL is the Crafatar avatar image for a UUID.
func (c *Client) AvatarURL(uuid string, overlay bool) string {
	return c.renderURL("avatars", uuid, overlay)
}

// BodyRenderURL is the Crafatar full-body render for a UUID.
func (c *Client) BodyRenderURL(uuid string, overlay bool) string {
	return c.renderURL("renders/body", uuid, overlay)
}

func (c *Client) renderURL(kind, uuid string, overlay bool) string {
	u := fmt.Sprintf("%s/%s/%s", c.crafatarURL, kind, strings.ReplaceAll(uuid, "-", ""))
	if overlay {
		u += "?overlay"
	}
	return u
}
