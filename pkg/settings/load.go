package settings

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "consumable"

var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 20)
	v.SetDefault("logger.log_level", "info")
	v.SetDefault("pool.name", "default")
	v.SetDefault("pool.stripe_size", 512)
	v.SetDefault("pool.stripes", 1)
	v.SetDefault("pool.flush_interval", 50)
	v.SetDefault("pool.drain.interval", 100)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.list", "consumable:items")
	v.SetDefault("redis.block_timeout", 1)
	v.SetDefault("kafka.group_id", "consumable")
	v.SetDefault("kafka.version", "2.8.0")
	v.SetDefault("kafka.retry_backoff", 1000)
}

// Load reads the YAML configuration at path. Values may be overridden by
// environment variables such as CONSUMABLE_SERVER_PORT. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open configuration file")
		}
		defer f.Close()

		if err := v.ReadConfig(f); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}
	return cfg, nil
}
