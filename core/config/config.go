package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"dog-inventory/core/bus"
	"dog-inventory/core/database"
	"dog-inventory/core/dog"
	"dog-inventory/core/logger"
	"dog-inventory/core/reconcile"
	"dog-inventory/core/server"
	"dog-inventory/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFile is the inventory file looked up in the config path.
const DefaultFile = "dog.yml"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Dog holds configuration for the dog_trainer API client.
	Dog dog.Config `mapstructure:"dog"`
	// Inventory holds the options that shape the generated inventory.
	Inventory reconcile.Config `mapstructure:"inventory"`
	// Storage holds configuration for the fact snapshot bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the run-history database.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Bus holds configuration for run event publishing.
	Bus bus.Config `mapstructure:"bus"`
}

// envAliases maps keys to the environment variables that may set them,
// in order of precedence.
var envAliases = map[string][]string{
	"dog.url":   {"DOG_URL", "DOG_API_ENDPOINT"},
	"dog.token": {"DOG_TOKEN", "DOG_API_TOKEN"},
}

// LoadConfig loads configuration from the .env file in path, the inventory
// file and environment variables. An empty file selects dog.yml in path,
// which may be absent; an explicitly named file must exist.
func LoadConfig(path, file string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(path, ".env")

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	if err := readFile(v, path, file); err != nil {
		return nil, err
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := config.Inventory.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inventory configuration: %w", err)
	}

	return &config, nil
}

func readFile(v *viper.Viper, path, file string) error {
	explicit := file != ""
	if !explicit {
		file = filepath.Join(path, DefaultFile)
	}

	if _, err := os.Stat(file); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file %s: %w", file, err)
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", file, err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice, reflect.Map:
			// Rule lists only come from the config file
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
