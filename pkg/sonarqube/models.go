package sonarqube

import (
	"slices"
	"strings"
)

// User is a SonarQube account as exposed by the v2 users-management API.
// Groups are not part of the resource; they are managed as memberships.
type User struct {
	ID          string   `json:"id,omitempty"`
	Login       string   `json:"login"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Password    string   `json:"password,omitempty"`
	Local       *bool    `json:"local,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	ScmAccounts []string `json:"scmAccounts,omitempty"`
	Groups      []string `json:"-"`
}

// Equal compares the attributes a caller can declare. Password is never
// returned by the API, so a declared password always differs from a fetched
// user.
func (u User) Equal(o User) bool {
	return u.Login == o.Login &&
		u.Name == o.Name &&
		u.Email == o.Email &&
		u.Password == o.Password &&
		sameSet(u.ScmAccounts, o.ScmAccounts) &&
		sameSet(u.Groups, o.Groups)
}

// Group is a SonarQube group.
type Group struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Managed     bool   `json:"managed,omitempty"`
	Default     bool   `json:"default,omitempty"`

	// GlobalPermissions are applied with the permissions API after the
	// group itself is written.
	GlobalPermissions []string `json:"-"`
}

// Equal compares name, description and the set of global permissions.
func (g Group) Equal(o Group) bool {
	return g.Name == o.Name &&
		g.Description == o.Description &&
		sameSet(g.GlobalPermissions, o.GlobalPermissions)
}

// GroupMembership links a user to a group.
type GroupMembership struct {
	ID      string `json:"id,omitempty"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

// GroupPermission is one global permission granted to a group.
type GroupPermission struct {
	GroupName  string `json:"groupName"`
	Permission string `json:"permission"`
}

// Setting is a global or component setting. Exactly one of Value and Values
// is meaningful for a given key.
type Setting struct {
	Key       string   `json:"key"`
	Component string   `json:"component,omitempty"`
	Value     string   `json:"value,omitempty"`
	Values    []string `json:"values,omitempty"`
	Inherited bool     `json:"inherited,omitempty"`
}

// Valid reports whether the setting carries a key and a value.
func (s Setting) Valid() bool {
	return strings.TrimSpace(s.Key) != "" &&
		(strings.TrimSpace(s.Value) != "" || len(s.Values) > 0)
}

// Equal compares the stored value(s).
func (s Setting) Equal(o Setting) bool {
	return strings.TrimSpace(s.Value) == strings.TrimSpace(o.Value) &&
		slices.Equal(s.Values, o.Values)
}

// Project is an entry of api/projects/search.
type Project struct {
	Key        string `json:"key"`
	Name       string `json:"name,omitempty"`
	Qualifier  string `json:"qualifier,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	Managed    bool   `json:"managed,omitempty"`
}

// DopSetting is a DevOps platform configuration usable for project import.
type DopSetting struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Key  string `json:"key"`
	URL  string `json:"url,omitempty"`
}

// DopProjectImport describes a project bound to a DevOps platform
// repository.
type DopProjectImport struct {
	ProjectKey           string `json:"projectKey"`
	ProjectName          string `json:"projectName"`
	DevOpsPlatformKey    string `json:"-"`
	RepositoryIdentifier string `json:"repositoryIdentifier"`
	Monorepo             bool   `json:"monorepo"`
	ProjectIdentifier    string `json:"projectIdentifier,omitempty"`
}

func sameSet(a, b []string) bool {
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(slices.Compact(x), slices.Compact(y))
}
