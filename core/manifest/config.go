package manifest

// Config holds configuration for manifest resolution and caching.
type Config struct {
	// MissingRulePolicy is "fail" or "unavailable".
	MissingRulePolicy string `mapstructure:"missing_rule_policy" default:"fail"`
	// CacheCapacity is the LRU capacity; 0 or less keeps every manifest until reload.
	CacheCapacity int `mapstructure:"cache_capacity" default:"256"`
	// ArchivePrefix is the storage folder for archived manifests.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"manifests"`
}
