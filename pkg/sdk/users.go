package sdk

import (
	"context"
	"sort"
)

// ListUsers returns every user sorted by username. The backend answers with an
// object keyed by username.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var byName map[string]User
	if err := c.get(ctx, "/auth/users", &byName); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(byName))
	for name, u := range byName {
		u.Username = name
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/users/"+escape(username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, req UserCreate) (*User, error) {
	var user User
	if err := c.post(ctx, "/auth/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, username string, req UserUpdate) (*User, error) {
	var user User
	if err := c.put(ctx, "/auth/users/"+escape(username), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.delete(ctx, "/auth/users/"+escape(username), nil)
}
