// Package all links every module and lookup into the default registry.
package all

import (
	_ "restops/pkg/modules/github"
	_ "restops/pkg/modules/gitlab"
	_ "restops/pkg/modules/haproxy"
	_ "restops/pkg/modules/ovh"
	_ "restops/pkg/modules/security"
	_ "restops/pkg/modules/sonarqube"
)
