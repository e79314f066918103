package sonarqube

import (
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	"restops/pkg/module"
)

func TestUser_Lifecycle(t *testing.T) {
	e := fixenv.New(t)
	f := fakeSonarQube(e)
	devs := f.AddGroup("devs", "Developers")

	user := map[string]any{
		"user_login":  "jdoe",
		"user_name":   "John Doe",
		"user_email":  "jdoe@example.com",
		"user_groups": []any{"devs"},
	}

	res, err := invoke(t, false, runUser, args(f, user))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "[jdoe] Has been Created", res.Msg)
	require.NotNil(t, f.User("jdoe"))
	assert.Equal(t, "John Doe", f.User("jdoe")["name"])
	assert.Equal(t, []string{devs}, f.Memberships(f.User("jdoe")["id"].(string)))

	res, err = invoke(t, false, runUser, args(f, user))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "User [jdoe] Not Changed", res.Msg)

	user["user_name"] = "Johnny Doe"
	res, err = invoke(t, false, runUser, args(f, user))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "User [jdoe] Has Been Updated", res.Msg)
	assert.Equal(t, "Johnny Doe", f.User("jdoe")["name"])

	absent := map[string]any{"user_login": "jdoe", "state": "absent"}
	res, err = invoke(t, false, runUser, args(f, absent))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "[jdoe] Has been Deleted", res.Msg)
	assert.Nil(t, f.User("jdoe"))

	res, err = invoke(t, false, runUser, args(f, absent))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "[jdoe] Not Found", res.Msg)
}

func TestUser_GroupDrift(t *testing.T) {
	e := fixenv.New(t)
	f := fakeSonarQube(e)
	uid := f.AddUser("jdoe", "John Doe", "jdoe@example.com")
	admins := f.AddGroup("admins", "")
	devs := f.AddGroup("devs", "")
	f.AddMembership(uid, admins)

	res, err := invoke(t, false, runUser, args(f, map[string]any{
		"user_login":  "jdoe",
		"user_name":   "John Doe",
		"user_email":  "jdoe@example.com",
		"user_groups": []any{"devs"},
	}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "User [jdoe] Has Been Updated", res.Msg)
	assert.Equal(t, []string{devs}, f.Memberships(uid))
}

func TestUser_PasswordNotReturned(t *testing.T) {
	e := fixenv.New(t)
	f := fakeSonarQube(e)

	res, err := invoke(t, false, runUser, args(f, map[string]any{
		"user_login":    "jdoe",
		"user_password": "s3cret-Passw0rd",
		"user_name":     "John Doe",
	}))
	require.NoError(t, err)
	assert.True(t, res.Changed)

	inst, ok := res.Data["instance"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, inst, "password")
	assert.Equal(t, "jdoe", inst["login"])
}

func TestUser_CheckMode(t *testing.T) {
	e := fixenv.New(t)
	f := fakeSonarQube(e)

	res, err := invoke(t, true, runUser, args(f, map[string]any{"user_login": "jdoe", "user_name": "John"}))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Nil(t, f.User("jdoe"))
	assert.Empty(t, f.Mutations())
}

func TestUser_BadCredentials(t *testing.T) {
	e := fixenv.New(t)
	f := fakeSonarQube(e)

	raw := args(f, map[string]any{"user_login": "jdoe", "password": "wrong"})
	_, err := invoke(t, false, runUser, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Get User] - Failed Get Sonarqube User [jdoe]")
	assert.Contains(t, err.Error(), "401")
}

func TestUser_MissingLogin(t *testing.T) {
	var p UserParams
	require.NoError(t, config.ParseMap(map[string]any{"base_url": "http://sonar", "username": "admin"}, &p))
	err := config.Validate(&p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_login")
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{
		"sonarqube_user",
		"sonarqube_group",
		"sonarqube_group_global_permissions",
		"sonarqube_settings",
		"sonarqube_alm_settings_github",
		"sonarqube_alm_settings_gitlab",
		"sonarqube_alm_settings_azure",
		"sonarqube_alm_settings_bitbucket",
		"sonarqube_alm_settings_bitbucketcloud",
		"sonarqube_alm_access_token",
		"sonarqube_dop_project",
	} {
		_, ok := module.Default().Get(name)
		assert.True(t, ok, name)
	}
}
