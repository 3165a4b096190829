package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Admin     AdminConfig    `mapstructure:"admin"`
	Store     StoreConfig    `mapstructure:"store"`
	Media     MediaConfig    `mapstructure:"media"`
	ACL       ACLConfig      `mapstructure:"acl"`
	JWTSecret string         `mapstructure:"jwt_secret"`

	// ScopeDefaults holds config-path values used when core_config_data has no row.
	ScopeDefaults map[string]any `mapstructure:"scope_defaults"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
	Path     string `mapstructure:"path"` // directory for SQLite database files
}

// AdminConfig controls how admin URLs are built.
type AdminConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	FrontName string `mapstructure:"front_name"`
}

// StoreConfig identifies the store view the admin form is rendered for.
type StoreConfig struct {
	ID        int64 `mapstructure:"id"`
	WebsiteID int64 `mapstructure:"website_id"`
}

type MediaConfig struct {
	BaseURL      string                 `mapstructure:"base_url"`
	LocalPath    string                 `mapstructure:"local_path"`
	VerifyFiles  bool                   `mapstructure:"verify_files"`
	Presets      map[string]ImagePreset `mapstructure:"presets"`
	Placeholders map[string]string      `mapstructure:"placeholders"`
}

// ImagePreset describes a named image size, e.g. product_listing_thumbnail.
type ImagePreset struct {
	Type   string `mapstructure:"type"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// ACLConfig maps ACL resource ids to expr-lang expressions evaluated against the user.
type ACLConfig struct {
	Resources map[string]string `mapstructure:"resources"`
}

// DSN returns the driver-specific data source name.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path + "/" + d.Name + ".db"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// IsSQLite returns true if the driver is sqlite.
func (d DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../..")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.path", "./data")
	v.SetDefault("jwt_secret", "changeme-secret")

	v.SetDefault("admin.base_url", "")
	v.SetDefault("admin.front_name", "admin")

	v.SetDefault("store.id", 1)
	v.SetDefault("store.website_id", 1)

	v.SetDefault("media.base_url", "/media")
	v.SetDefault("media.local_path", "./pub/media")
	v.SetDefault("media.verify_files", true)
	v.SetDefault("media.presets", map[string]any{
		"product_listing_thumbnail": map[string]any{"type": "thumbnail", "width": 75, "height": 75},
	})
	v.SetDefault("media.placeholders", map[string]any{
		"thumbnail":   "catalog/product/placeholder/thumbnail.jpg",
		"small_image": "catalog/product/placeholder/small_image.jpg",
		"image":       "catalog/product/placeholder/image.jpg",
	})

	v.SetDefault("acl.resources", map[string]any{
		"MGH_ParentProducts::parent_products": `"catalog" in user.roles`,
		"Magento_Catalog::products":           `"catalog" in user.roles`,
	})

	v.SetDefault("scope_defaults", map[string]any{
		"parentproducts/general/enable": "1",
		"general/locale/code":           "en_US",
	})
}
