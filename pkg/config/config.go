package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig
	LLM     LLMConfig
	Matcher MatcherConfig
	Risk    RiskConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type CatalogConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type SQLiteConfig struct {
	Path string
}

type LLMConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	EmbeddingDim   int
	Temperature    float32
	MaxTokens      int
}

// MatcherConfig exposes the hand-tuned match constants. The shipped defaults
// are the calibrated values; they are configurable because the cut points have
// no calibration dataset behind them and will likely be retuned.
type MatcherConfig struct {
	NameWeight       float64
	SemanticWeight   float64
	MinNameScore     float64
	MinCombinedScore float64
	HighConfidence   float64
	MediumConfidence float64
	TopCandidates    int
}

type RiskConfig struct {
	LowMax    int
	MediumMax int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/allerpredict")

	viper.SetEnvPrefix("ALLERPREDICT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("catalog.path", "./data/metadata.json")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 3600)

	viper.SetDefault("sqlite.path", "./data/allerpredict.db")

	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.embeddingModel", "text-embedding-3-small")
	viper.SetDefault("llm.embeddingDim", 384)
	viper.SetDefault("llm.temperature", 0.5)
	viper.SetDefault("llm.maxTokens", 1024)

	viper.SetDefault("matcher.nameWeight", 0.7)
	viper.SetDefault("matcher.semanticWeight", 0.3)
	viper.SetDefault("matcher.minNameScore", 0.4)
	viper.SetDefault("matcher.minCombinedScore", 0.5)
	viper.SetDefault("matcher.highConfidence", 0.8)
	viper.SetDefault("matcher.mediumConfidence", 0.5)
	viper.SetDefault("matcher.topCandidates", 3)

	viper.SetDefault("risk.lowMax", 20)
	viper.SetDefault("risk.mediumMax", 50)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
