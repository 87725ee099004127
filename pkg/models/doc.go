// Package models provides the shared data model consumed by settings templates.
//
// # Project Configuration
//
// [ProjectConfig] is the per-project settings surface: database host, port,
// driver and credentials, hash salts, deploy URL and paths. It is rebuilt on
// every invocation and must not be mutated during a render pass; use
// [ProjectConfig.Clone] when a pass needs an adjusted copy.
//
// # App Types
//
// Each supported CMS is an [AppType]:
//
//	t := models.AppTypeDrupal
//	if t.IsValid() {
//	    fmt.Println("settings file:", t.SettingsFile())
//	}
//
// # Database Types
//
// [DatabaseType] selects the PHP driver name written into settings files:
//
//	driver := models.DatabasePostgres.DriverFor(models.AppTypeDrupal) // "pgsql"
package models
