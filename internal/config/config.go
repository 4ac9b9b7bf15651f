package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Game     Game     `yaml:"game"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:""`
	Name     string `yaml:"name" env:"POSTGRES_DB" env-default:"tictactoe"`
	SSLMode  string `yaml:"ssl-mode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	BotSkillPercent    int    `yaml:"bot-skill-percent" env:"BOT_SKILL_PERCENT" env-default:"70"`
	PlatformFeePercent int    `yaml:"platform-fee-percent" env:"PLATFORM_FEE_PERCENT" env-default:"5"`
	MinBet             string `yaml:"min-bet" env:"MIN_BET" env-default:"1"`
	MaxBet             string `yaml:"max-bet" env:"MAX_BET" env-default:"1000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Postgres) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		that.Host, that.Port, that.User, that.Password, that.Name, that.SSLMode,
	)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// BotSkillProbability converts the configured percentage to a 0-1 probability.
func (that *Game) BotSkillProbability() float64 {
	return float64(that.BotSkillPercent) / 100
}
