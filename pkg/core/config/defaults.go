package config

// Default values for module parameters.
const (
	// StatePresent is the default desired state.
	StatePresent = "present"

	// StateAbsent requests removal.
	StateAbsent = "absent"

	// DefaultDataplaneAPIVersion is the Dataplane API path prefix.
	DefaultDataplaneAPIVersion = "v2"

	// DefaultGitLabAPIVersion is the GitLab REST API version.
	DefaultGitLabAPIVersion = "v4"

	// DefaultGitHubAPIURL is the public GitHub REST endpoint.
	DefaultGitHubAPIURL = "https://api.github.com"

	// DefaultGitHubAPIVersion is sent as X-GitHub-Api-Version.
	DefaultGitHubAPIVersion = "2022-11-28"

	// DefaultJWTDuration is the GitHub App JWT lifetime in seconds.
	DefaultJWTDuration = 30

	// DefaultJWTClockDrift is subtracted from "now" for the JWT iat claim.
	DefaultJWTClockDrift = 60

	// DefaultJWTAlgorithm signs the GitHub App JWT.
	DefaultJWTAlgorithm = "RS256"

	// DefaultPBKDF2Rounds is used when rounds is unset or not positive.
	DefaultPBKDF2Rounds = 100000

	// DefaultSaltLength is the length of generated salts.
	DefaultSaltLength = 16

	// DefaultDNSRecordTTL is the OVH record TTL in seconds.
	DefaultDNSRecordTTL = 3600

	// DefaultDNSRecordType is the OVH record type.
	DefaultDNSRecordType = "A"

	// DefaultOVHEndpoint is the go-ovh endpoint name.
	DefaultOVHEndpoint = "ovh-eu"
)

// Defaulter is implemented by param structs that pre-populate their defaults
// before the args file is decoded over them.
type Defaulter interface {
	SetDefaults()
}

// SetDefaults makes "present" the default state.
func (s *StateParams) SetDefaults() {
	if s.State == "" {
		s.State = StatePresent
	}
}

// applyDefaults calls SetDefaults when params implements Defaulter.
func applyDefaults(params any) {
	if d, ok := params.(Defaulter); ok {
		d.SetDefaults()
	}
}
