package sales

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"
)

// ErrUserNotFound is returned when the user service does not know a cashier.
var ErrUserNotFound = errors.New("user not found")

// User is the subset of the user service payload the sales flow needs.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserDirectory looks cashiers up by stable id.
type UserDirectory interface {
	Lookup(ctx context.Context, id string) (*User, error)
}

// HTTPUserDirectory queries GET {baseURL}/{id}.
type HTTPUserDirectory struct {
	client *resty.Client
}

func NewHTTPUserDirectory(baseURL string) *HTTPUserDirectory {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(5 * time.Second)
	return &HTTPUserDirectory{client: client}
}

func (d *HTTPUserDirectory) Lookup(ctx context.Context, id string) (*User, error) {
	var user User
	res, err := d.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&user).
		Get("/{id}")
	if err != nil {
		return nil, fmt.Errorf("error making request to user API: %w", err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		if user.ID == "" {
			user.ID = id
		}
		return &user, nil
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("user API returned unexpected status: %d", res.StatusCode())
	}
}

func (d *HTTPUserDirectory) Close() error {
	return d.client.Close()
}
