package gitlab

// User mirrors the GitLab user resource. Unset fields are omitted from
// request bodies.
type User struct {
	ID       *int64 `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	State    string `json:"state,omitempty"`
	Locked   *bool  `json:"locked,omitempty"`

	AvatarURL       string `json:"avatar_url,omitempty"`
	WebURL          string `json:"web_url,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Location        string `json:"location,omitempty"`
	PublicEmail     string `json:"public_email,omitempty"`
	Skype           string `json:"skype,omitempty"`
	LinkedIn        string `json:"linkedin,omitempty"`
	Twitter         string `json:"twitter,omitempty"`
	Discord         string `json:"discord,omitempty"`
	WebsiteURL      string `json:"website_url,omitempty"`
	Organization    string `json:"organization,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
	Pronouns        string `json:"pronouns,omitempty"`
	Bot             *bool  `json:"bot,omitempty"`
	LastSignInAt    string `json:"last_sign_in_at,omitempty"`
	ConfirmedAt     string `json:"confirmed_at,omitempty"`
	LastActivityOn  string `json:"last_activity_on,omitempty"`
	ThemeID         *int64 `json:"theme_id,omitempty"`
	ColorSchemeID   *int64 `json:"color_scheme_id,omitempty"`
	ProjectsLimit   *int64 `json:"projects_limit,omitempty"`
	CurrentSignInAt string `json:"current_sign_in_at,omitempty"`

	CanCreateGroup   *bool  `json:"can_create_group,omitempty"`
	CanCreateProject *bool  `json:"can_create_project,omitempty"`
	TwoFactorEnabled *bool  `json:"two_factor_enabled,omitempty"`
	External         *bool  `json:"external,omitempty"`
	PrivateProfile   *bool  `json:"private_profile,omitempty"`
	CommitEmail      string `json:"commit_email,omitempty"`
	IsAdmin          *bool  `json:"is_admin,omitempty"`

	// Creation-only attributes.
	Admin            *bool  `json:"admin,omitempty"`
	Auditor          *bool  `json:"auditor,omitempty"`
	Note             string `json:"note,omitempty"`
	SkipConfirmation *bool  `json:"skip_confirmation,omitempty"`
}
