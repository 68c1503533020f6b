package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	AuthModeMock        = "mock"
	AuthModeCredentials = "credentials"
)

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type AuthConfig struct {
	Mode      string        `mapstructure:"mode"`
	MockDelay time.Duration `mapstructure:"mock_delay"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type QuizConfig struct {
	AdvanceDelayCorrect   time.Duration `mapstructure:"advance_delay_correct"`
	AdvanceDelayIncorrect time.Duration `mapstructure:"advance_delay_incorrect"`
	SessionTTL            time.Duration `mapstructure:"session_ttl"`
}

type QuestionsConfig struct {
	Path string `mapstructure:"path"`
}

type FunFactsConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Questions QuestionsConfig `mapstructure:"questions"`
	FunFacts  FunFactsConfig  `mapstructure:"funfacts"`
	Log       LogConfig       `mapstructure:"log"`
}

// Load reads config/config.yaml if present and applies environment overrides.
// Every key has a default, so a bare environment still yields a runnable config.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("auth.mode", AuthModeMock)
	v.SetDefault("auth.mock_delay", time.Second)
	v.SetDefault("auth.jwt_secret", "super-secret-key-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("quiz.advance_delay_correct", 3500*time.Millisecond)
	v.SetDefault("quiz.advance_delay_incorrect", 1500*time.Millisecond)
	v.SetDefault("quiz.session_ttl", 30*time.Minute)
	v.SetDefault("questions.path", "assets/data/questions.json")
	v.SetDefault("funfacts.api_url", "https://api.openai.com/v1")
	v.SetDefault("funfacts.api_key", "")
	v.SetDefault("funfacts.model", "gpt-3.5-turbo")
	v.SetDefault("funfacts.timeout", 60*time.Second)
	v.SetDefault("log.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("auth.mode", "AUTH_MODE")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	_ = v.BindEnv("questions.path", "QUESTIONS_PATH")
	_ = v.BindEnv("funfacts.api_url", "FUNFACTS_API_URL")
	_ = v.BindEnv("funfacts.api_key", "FUNFACTS_API_KEY")
	_ = v.BindEnv("funfacts.model", "FUNFACTS_MODEL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Auth.Mode != AuthModeMock && cfg.Auth.Mode != AuthModeCredentials {
		return nil, errors.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	return &cfg, nil
}
