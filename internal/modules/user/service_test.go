package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byEmail: map[string]*User{}} }

func (r *fakeRepo) CreateUser(ctx context.Context, u *User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) ListUsers(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeRepo) CountUsers(ctx context.Context) (int, error) { return len(r.byEmail), nil }

func TestRegisterUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u, err := svc.RegisterUser(context.Background(), "Ayesha Khan", "Ayesha@Example.com", "sunflower42")
	require.NoError(t, err)

	assert.Equal(t, "ayesha@example.com", u.Email, "emails are stored lowercased")
	assert.Equal(t, RoleUser, u.Role, "new accounts default to the user role")
	assert.NotEqual(t, "sunflower42", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("sunflower42")))
}

func TestRegisterUserValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	cases := []struct {
		name     string
		fullName string
		email    string
		password string
	}{
		{"missing name", "", "a@example.com", "sunflower42"},
		{"bad email", "Ayesha Khan", "not-an-email", "sunflower42"},
		{"short password", "Ayesha Khan", "a@example.com", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tc.fullName, tc.email, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestGetUserUnknown(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.GetUser(context.Background(), "b2f7c7e4-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}
