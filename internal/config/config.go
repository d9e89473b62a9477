package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port            string `mapstructure:"port"`
		MetricsPort     string `mapstructure:"metrics_port"`
		TempDir         string `mapstructure:"temp_dir"`
		PollingInterval int    `mapstructure:"polling_interval_seconds"`
		LogLevel        string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Storage struct {
		Provider      string `mapstructure:"provider"` // "s3" or "local"
		LocalRoot     string `mapstructure:"local_root"`
		KeyID         string `mapstructure:"key_id"`
		AppKey        string `mapstructure:"app_key"`
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		BucketDrop    string `mapstructure:"bucket_drop"`
		BucketArchive string `mapstructure:"bucket_archive"`
	} `mapstructure:"storage"`
	Schedule struct {
		Timezone      string `mapstructure:"timezone"`
		TemplatePath  string `mapstructure:"template_path"`
		WatchInterval int    `mapstructure:"watch_interval_seconds"`
	} `mapstructure:"schedule"`
	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`
}

func Load() *Config {
	viper.SetEnvPrefix("CHANNEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.temp_dir")
	viper.BindEnv("server.polling_interval_seconds")
	viper.BindEnv("server.log_level")

	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.local_root")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.bucket_drop")
	viper.BindEnv("storage.bucket_archive")

	viper.BindEnv("schedule.timezone")
	viper.BindEnv("schedule.template_path")
	viper.BindEnv("schedule.watch_interval_seconds")

	viper.BindEnv("auth.jwt_secret")

	// Defaults
	viper.SetDefault("server.port", ":8081")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.temp_dir", "/tmp/")
	viper.SetDefault("server.polling_interval_seconds", 30)
	viper.SetDefault("server.log_level", "error")

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_root", "./data")
	viper.SetDefault("storage.bucket_drop", "recordings-drop")
	viper.SetDefault("storage.bucket_archive", "recordings-archive")

	viper.SetDefault("schedule.timezone", "UTC")
	viper.SetDefault("schedule.watch_interval_seconds", 10)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️ CHANNEL_AUTH_JWT_SECRET not set, using insecure development secret")
		cfg.Auth.JWTSecret = "dev-only-channel-secret"
	}

	return &cfg
}
