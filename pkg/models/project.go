package models

// WordPressKeys holds the authentication keys and salts written into wp-config files.
type WordPressKeys struct {
	AuthKey        string `json:"auth_key"`
	SecureAuthKey  string `json:"secure_auth_key"`
	LoggedInKey    string `json:"logged_in_key"`
	NonceKey       string `json:"nonce_key"`
	AuthSalt       string `json:"auth_salt"`
	SecureAuthSalt string `json:"secure_auth_salt"`
	LoggedInSalt   string `json:"logged_in_salt"`
	NonceSalt      string `json:"nonce_salt"`
}

// @MX:NOTE: [AUTO] ProjectConfig is the only data surface templates may reference; a field missing here fails the render.
// ProjectConfig represents the per-project settings consumed by templates.
// It is constructed fresh before each render pass and treated as read-only
// for the duration of that pass.
type ProjectConfig struct {
	Name    string  `json:"name"`
	Type    AppType `json:"type"`
	AppRoot string  `json:"app_root"`
	Docroot string  `json:"docroot"`
	// AbsPath is the docroot as seen from inside the web container.
	AbsPath   string `json:"abs_path"`
	DeployURL string `json:"deploy_url"`

	DatabaseType     DatabaseType `json:"database_type"`
	DatabaseVersion  string       `json:"database_version"`
	DatabaseHost     string       `json:"database_host"`
	DatabasePort     int          `json:"database_port"`
	DatabaseDriver   string       `json:"database_driver"`
	DatabaseUsername string       `json:"database_username"`
	DatabasePassword string       `json:"database_password"`
	DatabaseName     string       `json:"database_name"`
	DatabasePrefix   string       `json:"database_prefix"`

	// DockerIP and DBPublishedPort are used when PHP runs on the host
	// (drush, artisan) instead of inside the web container. Either may be
	// empty/zero when the runtime could not be queried.
	DockerIP        string `json:"docker_ip"`
	DBPublishedPort int    `json:"db_published_port"`

	HashSalt    string        `json:"hash_salt"`
	TablePrefix string        `json:"table_prefix"`
	WordPress   WordPressKeys `json:"wordpress"`

	XHProfMode XHProfMode `json:"xhprof_mode"`
	Signature  string     `json:"signature"`
}

// Clone returns a copy of the configuration.
func (c *ProjectConfig) Clone() *ProjectConfig {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// HostSidePort returns the port to use when connecting from the host,
// falling back to the internal port if the published port is unknown.
func (c *ProjectConfig) HostSidePort() int {
	if c.DBPublishedPort > 0 {
		return c.DBPublishedPort
	}
	return c.DatabasePort
}

// HostSideHost returns the address to use when connecting from the host,
// falling back to 127.0.0.1 if the docker IP is unknown.
func (c *ProjectConfig) HostSideHost() string {
	if c.DockerIP != "" {
		return c.DockerIP
	}
	return "127.0.0.1"
}
