package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis   `yaml:"redis"`
	MoveLog  MoveLog `yaml:"movelog"`
	Consent  Consent `yaml:"consent"`
	Session  Session `yaml:"session"`
	Bot      Bot     `yaml:"bot"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type MoveLog struct {
	Key    string        `yaml:"key" env:"MOVELOG_KEY" env-default:"learning-data"`
	Expiry time.Duration `yaml:"expiry" env:"MOVELOG_EXPIRY" env-default:"720h"`
}

type Consent struct {
	Expiry time.Duration `yaml:"expiry" env:"CONSENT_EXPIRY" env-default:"720h"`
}

type Session struct {
	// IdleTimeout of 0 keeps sessions in memory forever.
	IdleTimeout   time.Duration `yaml:"idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type Bot struct {
	// Seed of 0 seeds the random fallback from the clock.
	Seed int64 `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
