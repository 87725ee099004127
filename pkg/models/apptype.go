package models

// AppType identifies the CMS or framework a project runs.
type AppType string

const (
	AppTypeDrupal6   AppType = "drupal6"
	AppTypeDrupal7   AppType = "drupal7"
	AppTypeDrupal    AppType = "drupal"
	AppTypeBackdrop  AppType = "backdrop"
	AppTypeWordPress AppType = "wordpress"
	AppTypeTYPO3     AppType = "typo3"
	AppTypeLaravel   AppType = "laravel"
	AppTypeMagento   AppType = "magento"
	AppTypeMagento2  AppType = "magento2"
	AppTypePHP       AppType = "php"
)

// AppTypes returns all supported app types in display order.
func AppTypes() []AppType {
	return []AppType{
		AppTypeDrupal, AppTypeDrupal7, AppTypeDrupal6, AppTypeBackdrop,
		AppTypeWordPress, AppTypeTYPO3, AppTypeLaravel, AppTypeMagento,
		AppTypeMagento2, AppTypePHP,
	}
}

// IsValid checks if the app type is supported.
func (t AppType) IsValid() bool {
	switch t {
	case AppTypeDrupal6, AppTypeDrupal7, AppTypeDrupal, AppTypeBackdrop,
		AppTypeWordPress, AppTypeTYPO3, AppTypeLaravel, AppTypeMagento,
		AppTypeMagento2, AppTypePHP:
		return true
	}
	return false
}

// IsDrupalFamily reports whether the app type uses the settings.php +
// settings.ddev.php include pattern.
func (t AppType) IsDrupalFamily() bool {
	switch t {
	case AppTypeDrupal6, AppTypeDrupal7, AppTypeDrupal, AppTypeBackdrop:
		return true
	}
	return false
}

// SettingsFile returns the user-facing settings file name relative to the
// site directory, or "" when the app type has none.
func (t AppType) SettingsFile() string {
	switch t {
	case AppTypeDrupal6, AppTypeDrupal7, AppTypeDrupal, AppTypeBackdrop:
		return "settings.php"
	case AppTypeWordPress:
		return "wp-config.php"
	case AppTypeTYPO3:
		return "LocalConfiguration.php"
	case AppTypeLaravel:
		return ".env"
	case AppTypeMagento:
		return "local.xml"
	case AppTypeMagento2:
		return "env.php"
	}
	return ""
}

// UploadDir returns the conventional public files directory relative to the docroot.
func (t AppType) UploadDir() string {
	switch t {
	case AppTypeDrupal6, AppTypeDrupal7, AppTypeDrupal, AppTypeBackdrop:
		return "sites/default/files"
	case AppTypeWordPress:
		return "wp-content/uploads"
	case AppTypeTYPO3:
		return "fileadmin"
	case AppTypeLaravel:
		return "storage/app/public"
	case AppTypeMagento, AppTypeMagento2:
		return "media"
	}
	return ""
}

// DatabaseType identifies the database server flavour.
type DatabaseType string

const (
	DatabaseMySQL    DatabaseType = "mysql"
	DatabaseMariaDB  DatabaseType = "mariadb"
	DatabasePostgres DatabaseType = "postgres"
)

// DatabaseTypes returns all supported database types.
func DatabaseTypes() []DatabaseType {
	return []DatabaseType{DatabaseMariaDB, DatabaseMySQL, DatabasePostgres}
}

// IsValid checks if the database type is supported.
func (d DatabaseType) IsValid() bool {
	switch d {
	case DatabaseMySQL, DatabaseMariaDB, DatabasePostgres:
		return true
	}
	return false
}

// InternalPort returns the port the database listens on inside the network.
func (d DatabaseType) InternalPort() int {
	if d == DatabasePostgres {
		return 5432
	}
	return 3306
}

// DriverFor returns the PHP database driver name the given app type expects.
func (d DatabaseType) DriverFor(t AppType) string {
	switch t {
	case AppTypeDrupal6:
		// mysqli is required by D6LTS and works with older D6 as well.
		if d == DatabasePostgres {
			return "pgsql"
		}
		return "mysqli"
	case AppTypeTYPO3:
		if d == DatabasePostgres {
			return "pdo_pgsql"
		}
		return "mysqli"
	case AppTypeLaravel:
		switch d {
		case DatabasePostgres:
			return "pgsql"
		case DatabaseMariaDB:
			return "mariadb"
		}
		return "mysql"
	}
	if d == DatabasePostgres {
		return "pgsql"
	}
	return "mysql"
}

// XHProfMode selects how the profiler is wired into PHP requests.
type XHProfMode string

const (
	XHProfModePrepend XHProfMode = "prepend"
	XHProfModeXHGui   XHProfMode = "xhgui"
	XHProfModeGlobal  XHProfMode = "global"
)

// IsValid checks if the xhprof mode is a known value.
func (m XHProfMode) IsValid() bool {
	switch m {
	case XHProfModePrepend, XHProfModeXHGui, XHProfModeGlobal:
		return true
	}
	return false
}
