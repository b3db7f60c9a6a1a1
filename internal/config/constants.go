package config

import "time"

const (
	StateDirName   = ".locstats"
	DBFileName     = "history.db"
	ConfigFileName = ".locstats.toml"
	ProjectURL     = "https://github.com/kokkonisd/locstats"
)

// IgnoredDirNames are never watched for changes.
var IgnoredDirNames = map[string]struct{}{
	StateDirName:   {},
	".git":         {},
	"node_modules": {},
	"__pycache__":  {},
}

const (
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultCacheSize     = 4096
	DefaultHistoryLimit  = 20
	DefaultServeAddr     = "127.0.0.1:7330"
)
