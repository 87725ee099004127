// Package defs holds file names, directory names and markers shared across packages.
package defs

// Signature marks a file as tool-generated. A file containing it may be
// overwritten or removed; a file without it belongs to the user.
const Signature = "#ddev-generated"

// Project layout.
const (
	// ProjectDir is the per-project configuration directory.
	ProjectDir = ".ddev"

	// ConfigYAML is the project configuration file inside ProjectDir.
	ConfigYAML = "config.yaml"

	// ManifestJSON tracks generated files inside ProjectDir.
	ManifestJSON = ".settings-manifest.json"

	// XHProfDir holds the profiler prepend file inside ProjectDir.
	XHProfDir = "xhprof"

	// XHProfPrepend is the auto_prepend_file used when xhprof is enabled.
	XHProfPrepend = "xhprof_prepend.php"
)

// Generated settings file names.
const (
	DrupalSettingsDdev    = "settings.ddev.php"
	WordPressConfigDdev   = "wp-config-ddev.php"
	TYPO3AdditionalConfig = "AdditionalConfiguration.php"
	LaravelEnvDdev        = ".env.ddev"

	// DrushRC points Drush 8 at the project URL for Drupal 6/7 and Backdrop.
	DrushRC = "drushrc.php"
)

// Environment variables describing where PHP is executing.
const (
	// EnvPHPVersion is set inside the web container only.
	EnvPHPVersion = "DDEV_PHP_VERSION"

	// EnvIsProject is set both in the container and in host-side wrappers.
	EnvIsProject = "IS_DDEV_PROJECT"
)
