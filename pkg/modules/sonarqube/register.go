package sonarqube

import "restops/pkg/module"

func init() {
	module.Register(module.New("sonarqube_user", runUser))
	module.Register(module.New("sonarqube_group", runGroup))
	module.Register(module.New("sonarqube_group_global_permissions", runGroupPermission))
	module.Register(module.New("sonarqube_settings", runSetting))
	module.Register(module.New("sonarqube_alm_settings_github", runGitHubAlm))
	module.Register(module.New("sonarqube_alm_settings_gitlab", tokenAlm("gitlab")))
	module.Register(module.New("sonarqube_alm_settings_azure", tokenAlm("azure")))
	module.Register(module.New("sonarqube_alm_settings_bitbucket", tokenAlm("bitbucket")))
	module.Register(module.New("sonarqube_alm_settings_bitbucketcloud", runBitbucketCloudAlm))
	module.Register(module.New("sonarqube_alm_access_token", runAlmAccessToken))
	module.Register(module.New("sonarqube_dop_project", runDopProject))
}
