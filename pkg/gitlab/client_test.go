package gitlab

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/logging"
	"restops/pkg/gitlab/gitlabtest"
	"restops/pkg/httpapi"
)

func newFakeGitLab(t *testing.T) (*gitlabtest.Server, *Client) {
	t.Helper()

	srv := gitlabtest.NewServer()
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", AccessToken: gitlabtest.Token, Logger: logging.Discard()})
	require.NoError(t, err)
	return srv, c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{AccessToken: "x"})
	assert.ErrorContains(t, err, "'base_url' is required")

	_, err = New(Config{BaseURL: "http://gitlab"})
	assert.ErrorContains(t, err, "'token' is required")

	c, err := New(Config{BaseURL: "http://gitlab/", AccessToken: "x", APIVersion: "v3"})
	require.NoError(t, err)
	assert.Equal(t, "http://gitlab/api/v3", c.api.BaseURL())
}

func TestUserLifecycle(t *testing.T) {
	f, c := newFakeGitLab(t)
	ctx := context.Background()

	_, err := c.GetUserByName(ctx, "jdoe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	admin := true
	created, err := c.CreateUser(ctx, &User{Username: "jdoe", Password: "s3cret!!", Name: "John Doe", Email: "jdoe@example.com", Admin: &admin})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, int64(11), *created.ID)
	assert.Empty(t, created.Password)

	got, err := c.GetUserByName(ctx, " jdoe ")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	updated, err := c.UpdateUser(ctx, &User{Username: "jdoe", Name: "Johnny Doe"})
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Contains(t, f.Calls(), "PUT /api/v4/users/11")

	require.NoError(t, c.DeleteUser(ctx, "jdoe"))
	assert.Zero(t, f.Count())

	err = c.DeleteUser(ctx, "jdoe")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestGetUserByName_Blank(t *testing.T) {
	_, c := newFakeGitLab(t)
	_, err := c.GetUserByName(context.Background(), "   ")
	assert.ErrorContains(t, err, "'username' is required")
}

func TestUnauthorized(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, AccessToken: "wrong", Logger: logging.Discard()})
	require.NoError(t, err)

	_, err = c.GetUserByName(context.Background(), "jdoe")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpapi.StatusCode(err))
	assert.Contains(t, err.Error(), "401 Unauthorized")
}
