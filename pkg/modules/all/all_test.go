package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restops/pkg/module"
)

func TestRegistry(t *testing.T) {
	modules := module.Default().List()
	assert.Len(t, modules, 23)
	assert.Contains(t, modules, "haproxy_acl")
	assert.Contains(t, modules, "gitlab_user")
	assert.Contains(t, modules, "sonarqube_dop_project")
	assert.Contains(t, modules, "ovh_dns_record")

	assert.Equal(t, []string{
		"github_app_token",
		"haproxy_cert",
		"haproxy_tx",
		"pbkdf2_hash",
		"pbkdf2_hash_filter",
	}, module.Default().Lookups())
}
