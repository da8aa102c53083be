package definition

// Config holds configuration for loading the feature definition.
type Config struct {
	// Path is the local definition file.
	Path string `mapstructure:"path" default:"features.yaml"`
	// Object, when set, loads the definition from this object in the storage bucket instead of Path.
	Object string `mapstructure:"object" default:""`
	// Watch reloads the local file when it changes.
	Watch bool `mapstructure:"watch" default:"false"`
	// DebounceMillis groups bursts of file events into one reload.
	DebounceMillis int `mapstructure:"debounce_millis" default:"500"`
}
