package pocketbase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// userRecord is the wire shape of a user record.
type userRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Created  string `json:"created"`
}

type authResponse struct {
	Token  string      `json:"token"`
	Record *userRecord `json:"record"`
}

// Login authenticates with email and password and retains the auth token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (types.User, error) {
	payload := map[string]string{
		"identity": email,
		"password": password,
	}
	response := &authResponse{}
	if err := c.do(ctx, "POST", "/api/collections/users/auth-with-password", payload, response); err != nil {
		return types.User{}, errors.Wrap(err, "authenticating")
	}
	c.token = response.Token
	c.authRecord = response.Record
	return response.Record.toUser(), nil
}

// Register creates a new account and logs it in. The backend requires a
// unique username, which is synthesized.
func (c *Client) Register(ctx context.Context, email, password, name string) (types.User, error) {
	payload := map[string]any{
		"username":        "user_" + uuid.New().String()[:8],
		"email":           email,
		"emailVisibility": true,
		"password":        password,
		"passwordConfirm": password,
		"name":            name,
	}
	if err := c.do(ctx, "POST", "/api/collections/users/records", payload, nil); err != nil {
		return types.User{}, errors.Wrap(err, "creating user")
	}
	return c.Login(ctx, email, password)
}

// SignOut drops the local auth state. The server keeps no session.
func (c *Client) SignOut() {
	c.token = ""
	c.authRecord = nil
}

// CurrentUser returns the authenticated user, if any.
func (c *Client) CurrentUser() (types.User, bool) {
	if c.authRecord == nil {
		return types.User{}, false
	}
	return c.authRecord.toUser(), true
}

func (r *userRecord) toUser() types.User {
	name := r.Name
	if name == "" {
		name = r.Username
	}
	return types.User{
		ID:     r.ID,
		Name:   name,
		Avatar: placeholderAvatar(r.ID, r.Avatar),
		IsBot:  false,
	}
}

// placeholderAvatar synthesizes a deterministic avatar for users without one.
func placeholderAvatar(userID, avatar string) string {
	if len(avatar) >= 4 && avatar[:4] == "http" {
		return avatar
	}
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + userID + "&backgroundColor=b6e3f4"
}
