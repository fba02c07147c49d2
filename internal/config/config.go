package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Server ServerConfig
	GenAI  GenAIConfig
	Redis  RedisConfig
	Streak StreakConfig
	Logger LoggerConfig

	Generation GenerationConfig
}

type AppConfig struct {
	// DefaultUserID is the single configured practice identity. There is no
	// account model; every answer log row belongs to this user.
	DefaultUserID string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// GenAIConfig drives the generation orchestrator: the key pool, the
// primary/fallback model pair, and the retry budget.
type GenAIConfig struct {
	APIKeys        []string
	PrimaryModel   string
	FallbackModel  string
	RequestTimeout time.Duration
	// ChunkSize caps how many items one completion call asks for.
	ChunkSize int
	// MaxAttempts bounds the deficit loop; hitting it with items already
	// accepted yields a partial result, with zero items a hard failure.
	MaxAttempts int
	// MaxChoices is the per-question choice ceiling applied at validation.
	MaxChoices int
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StreakConfig struct {
	// DailyGoal is the answer count reported alongside the streak.
	DailyGoal int
	// Timezone is the fixed IANA zone used to bucket answer timestamps into
	// calendar days. All streak math happens in this zone.
	Timezone string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type GenerationConfig struct {
	// CaseInsensitiveTopics folds case when matching a batch's topic name
	// against existing topics.
	CaseInsensitiveTopics bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		App: AppConfig{
			DefaultUserID: viper.GetString("app.default_user_id"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		GenAI: GenAIConfig{
			APIKeys:        splitList(viper.GetString("genai.api_keys")),
			PrimaryModel:   viper.GetString("genai.primary_model"),
			FallbackModel:  viper.GetString("genai.fallback_model"),
			RequestTimeout: viper.GetDuration("genai.request_timeout") * time.Second,
			ChunkSize:      viper.GetInt("genai.chunk_size"),
			MaxAttempts:    viper.GetInt("genai.max_attempts"),
			MaxChoices:     viper.GetInt("genai.max_choices"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Streak: StreakConfig{
			DailyGoal: viper.GetInt("streak.daily_goal"),
			Timezone:  viper.GetString("streak.timezone"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Generation: GenerationConfig{
			CaseInsensitiveTopics: viper.GetBool("generation.case_insensitive_topics"),
		},
	}

	applyEnvOverrides(config)

	if len(config.GenAI.APIKeys) == 0 {
		return nil, fmt.Errorf("at least one GenAI API key is required (genai.api_keys or GENAI_API_KEYS)")
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("app.default_user_id", "default")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("genai.primary_model", "gemini-2.5-flash")
	viper.SetDefault("genai.fallback_model", "gemini-2.0-flash")
	viper.SetDefault("genai.request_timeout", 60)
	viper.SetDefault("genai.chunk_size", 10)
	viper.SetDefault("genai.max_attempts", 8)
	viper.SetDefault("genai.max_choices", 6)
	viper.SetDefault("streak.daily_goal", 5)
	viper.SetDefault("streak.timezone", "UTC")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
}

func applyEnvOverrides(config *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if keys := os.Getenv("GENAI_API_KEYS"); keys != "" {
		config.GenAI.APIKeys = splitList(keys)
	}
	if model := os.Getenv("GENAI_PRIMARY_MODEL"); model != "" {
		config.GenAI.PrimaryModel = model
	}
	if model := os.Getenv("GENAI_FALLBACK_MODEL"); model != "" {
		config.GenAI.FallbackModel = model
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetDSN builds the Postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
