package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/leafdb/internal/pager"
	"github.com/tuannm99/leafdb/internal/storage"
	"github.com/tuannm99/leafdb/internal/table"
)

type LeafDBConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Path          string `mapstructure:"path"`
		MaxPages      uint32 `mapstructure:"max_pages"`
		CacheCapacity int    `mapstructure:"cache_capacity"`
	} `mapstructure:"storage"`

	Cache struct {
		RowCacheEntries int64 `mapstructure:"row_cache_entries"`
	} `mapstructure:"cache"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	REPL struct {
		Prompt      string `mapstructure:"prompt"`
		HistoryFile string `mapstructure:"history_file"`
	} `mapstructure:"repl"`
}

// EnvPrefix prefixes environment overrides, e.g. LEAFDB_STORAGE_MAX_PAGES.
const EnvPrefix = "LEAFDB"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "leafdb")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.max_pages", storage.DefaultMaxPages)
	v.SetDefault("storage.cache_capacity", 0)
	v.SetDefault("cache.row_cache_entries", table.DefaultRowCacheEntries)
	v.SetDefault("log.level", "info")
	v.SetDefault("repl.prompt", "db > ")
	v.SetDefault("repl.history_file", "")
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path loads defaults and environment overrides only.
func LoadConfig(path string) (*LeafDBConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg LeafDBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// TableOptions maps the config onto table.Open options.
func (c *LeafDBConfig) TableOptions() table.Options {
	return table.Options{
		Pager: pager.Options{
			MaxPages:      c.Storage.MaxPages,
			CacheCapacity: c.Storage.CacheCapacity,
		},
		RowCacheEntries: c.Cache.RowCacheEntries,
	}
}
