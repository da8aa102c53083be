package settings

// Config holds configuration for the settings sources.
type Config struct {
	// UseDatabase layers the feature_settings table over the definition defaults.
	UseDatabase bool `mapstructure:"use_database" default:"false"`
	// AutoMigrate creates the feature_settings table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}
