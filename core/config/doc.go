// Package config provides configuration management for the feature manifest service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (via godotenv). Defaults live next to each section in
// `default:"..."` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key, shutdown timeout
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Database: MySQL or SQLite connection for persisted settings
//   - Definition: Feature definition file or object, reload watching
//   - Settings: Which settings sources are layered over definition defaults
//   - Manifest: Missing rule policy, cache capacity, archive prefix
//
// Environment variables use the section and key joined by an underscore, e.g.
// MANIFEST_CACHE_CAPACITY or DEFINITION_PATH.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Manifest.MissingRulePolicy)
package config
