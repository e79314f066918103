package sonarqube

import (
	"context"
	"net/http"
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/logging"
	"restops/pkg/httpapi"
)

func TestNew(t *testing.T) {
	_, err := New(Config{Username: "admin"})
	assert.ErrorContains(t, err, "'base_url' is required")

	_, err = New(Config{BaseURL: "http://sonar:9000"})
	assert.ErrorContains(t, err, "'username' is required")

	_, err = New(Config{BaseURL: "sonar", Username: "admin"})
	assert.ErrorContains(t, err, "Initialization failed")
}

func TestUnauthorized(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)

	c, err := New(Config{BaseURL: srv.URL, Username: "admin", Password: "wrong", Logger: logging.Discard()})
	require.NoError(t, err)

	_, err = c.GetUser(context.Background(), "jdoe")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpapi.StatusCode(err))
	assert.Contains(t, err.Error(), "Authentication required")
	assert.False(t, IsNotFound(err))
}

func TestUserLifecycle(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	_, err := c.GetUser(ctx, "jdoe")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	local := true
	created, err := c.CreateUser(ctx, &User{Login: "jdoe", Name: "John", Email: "j@example.com", Password: "pwd", Local: &local, ScmAccounts: []string{"jdoe-gh"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.Password)

	// A second user whose login contains the first one must not match.
	srv.AddUser("jdoe2", "Other", "o@example.com")
	got, err := c.GetUser(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := c.UpdateUser(ctx, &User{Login: "jdoe", Name: "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", updated.Name)
	assert.Equal(t, []string{}, updated.ScmAccounts)

	patch := srv.Mutations()[1]
	assert.Equal(t, http.MethodPatch, patch.Method)
	assert.JSONEq(t, `{"login":"jdoe","name":"John Doe","scmAccounts":[]}`, patch.Body)

	require.NoError(t, c.DeleteUser(ctx, "jdoe"))
	assert.Nil(t, srv.User("jdoe"))
}

func TestUser_Equal(t *testing.T) {
	a := User{Login: "jdoe", Name: "J", ScmAccounts: []string{"b", "a"}, Groups: []string{"dev"}}
	b := User{Login: "jdoe", Name: "J", ScmAccounts: []string{"a", "b", "a"}, Groups: []string{"dev"}}
	assert.True(t, a.Equal(b))

	b.Groups = nil
	assert.False(t, a.Equal(b))

	a.Groups = nil
	a.Password = "secret"
	assert.False(t, a.Equal(b))
}

func TestGroupLifecycle(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	created, err := c.CreateGroup(ctx, &Group{Name: "devs", Description: "Developers"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	srv.AddGroup("devs-admins", "")
	got, err := c.GetGroup(ctx, "devs")
	require.NoError(t, err)
	assert.Equal(t, "Developers", got.Description)

	_, err = c.UpdateGroup(ctx, &Group{Name: "devs", Description: "All developers"})
	require.NoError(t, err)
	assert.Equal(t, "All developers", srv.Group("devs")["description"])

	require.NoError(t, c.DeleteGroup(ctx, "devs"))
	assert.Nil(t, srv.Group("devs"))

	err = c.DeleteGroup(ctx, "devs")
	assert.True(t, IsNotFound(err))
}

func TestGroupPermissions(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	srv.AddGroup("ops", "")

	_, err := c.AddGroupPermission(ctx, GroupPermission{GroupName: "ops", Permission: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, srv.Permissions("ops"))

	granted, err := c.InitializeGroupPermissions(ctx, "ops", []string{"scan", "provisioning"})
	require.NoError(t, err)
	assert.Len(t, granted, 2)
	assert.Equal(t, []string{"provisioning", "scan"}, srv.Permissions("ops"))

	require.NoError(t, c.RemoveGroupPermission(ctx, GroupPermission{GroupName: "ops", Permission: "scan"}))
	assert.Equal(t, []string{"provisioning"}, srv.Permissions("ops"))

	_, err = c.AddGroupPermission(ctx, GroupPermission{GroupName: "ops", Permission: "root"})
	assert.ErrorContains(t, err, "must be one of: admin, gateadmin")

	_, err = c.AddGroupPermission(ctx, GroupPermission{GroupName: "missing", Permission: "scan"})
	assert.True(t, httpapi.IsNotFound(err))
}

func TestReinitializeUserMemberships(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	userID := srv.AddUser("jdoe", "John", "")
	oldGroup := srv.AddGroup("legacy", "")
	devs := srv.AddGroup("devs", "")
	ops := srv.AddGroup("ops", "")
	srv.AddMembership(userID, oldGroup)

	created, err := c.ReinitializeUserMemberships(ctx, "jdoe", []string{"devs", "ops"})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	want := []string{devs, ops}
	if want[0] > want[1] {
		want[0], want[1] = want[1], want[0]
	}
	assert.Equal(t, want, srv.Memberships(userID))

	memberships, err := c.GetUserMemberships(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, memberships, 2)

	assert.NoError(t, c.DeleteMembership(ctx, "membership-unknown"))
}

func TestSettings(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	_, err := c.GetSetting(ctx, "sonar.core.serverBaseURL", "")
	assert.True(t, IsNotFound(err))

	res, err := c.SetSetting(ctx, Setting{Key: "sonar.core.serverBaseURL", Value: " https://sonar.example.com "})
	require.NoError(t, err)
	assert.Equal(t, "created", res["status"])
	assert.Equal(t, "https://sonar.example.com", srv.Setting("sonar.core.serverBaseURL", "")["value"])

	_, err = c.SetSetting(ctx, Setting{Key: "sonar.exclusions", Component: "proj", Values: []string{"**/gen/**", "**/vendor/**"}})
	require.NoError(t, err)

	got, err := c.GetSetting(ctx, "sonar.exclusions", "proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"**/gen/**", "**/vendor/**"}, got.Values)
	assert.Equal(t, "proj", got.Component)

	require.NoError(t, c.ResetSetting(ctx, "sonar.exclusions", "proj"))
	assert.Nil(t, srv.Setting("sonar.exclusions", "proj"))

	reset := srv.Mutations()[2]
	assert.Equal(t, http.MethodPost, reset.Method)
	assert.Equal(t, "sonar.exclusions", reset.Query().Get("keys"))

	_, err = c.SetSetting(ctx, Setting{Key: "sonar.exclusions"})
	assert.ErrorContains(t, err, "no value provided")
}

func TestProjects(t *testing.T) {
	env := fixenv.New(t)
	srv := fakeSonar(env)
	c := testClient(env)
	ctx := context.Background()

	dopID := srv.AddDopSetting("github-main", "github")

	_, err := c.GetProject(ctx, "acme_api")
	assert.True(t, IsNotFound(err))

	out, err := c.ImportDopProject(ctx, DopProjectImport{
		ProjectKey:           "acme_api",
		ProjectName:          "ACME API",
		DevOpsPlatformKey:    "github-main",
		RepositoryIdentifier: "acme/api",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out["projectId"])

	imp := srv.Mutations()[0]
	assert.JSONEq(t, `{"projectKey":"acme_api","projectName":"ACME API","repositoryIdentifier":"acme/api","monorepo":false,"devOpsPlatformSettingId":"`+dopID+`"}`, imp.Body)

	project, err := c.GetProject(ctx, "acme_api")
	require.NoError(t, err)
	assert.Equal(t, "ACME API", project.Name)

	require.NoError(t, c.DeleteProject(ctx, "acme_api"))
	assert.Nil(t, srv.Project("acme_api"))

	_, err = c.ImportDopProject(ctx, DopProjectImport{ProjectKey: "x", DevOpsPlatformKey: "unknown"})
	assert.True(t, IsNotFound(err))
}
