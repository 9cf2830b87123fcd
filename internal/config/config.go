package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	MinScore       float64
	MaxScore       float64
	PassingScore   float64
	StatsCacheTTL  time.Duration
	Courses        []string
}

// defaultCourses is the predefined course catalogue offered to teachers.
var defaultCourses = []string{
	"Matemática", "Comunicación", "Ciencia y Tecnología",
	"Ciencias Sociales", "Inglés", "Arte y Cultura",
	"Educación Física", "Educación Religiosa", "Tutoría",
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AULA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Aula API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("score.min", 0.0)
	v.SetDefault("score.max", 20.0)
	v.SetDefault("score.passing", 11.0)
	v.SetDefault("stats.cache_ttl", "5m")

	ttl, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseDriver: strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		JWTSecret:      v.GetString("jwt.secret"),
		TokenTTL:       ttl,
		MinScore:       v.GetFloat64("score.min"),
		MaxScore:       v.GetFloat64("score.max"),
		PassingScore:   v.GetFloat64("score.passing"),
		StatsCacheTTL:  cacheTTL,
		Courses:        defaultCourses,
	}

	if courses := v.GetString("courses"); courses != "" {
		cfg.Courses = splitCourses(courses)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MinScore >= cfg.MaxScore {
		return Config{}, fmt.Errorf("score bounds are inverted: min %.2f, max %.2f", cfg.MinScore, cfg.MaxScore)
	}

	if cfg.PassingScore < cfg.MinScore || cfg.PassingScore > cfg.MaxScore {
		return Config{}, fmt.Errorf("passing score %.2f outside score bounds", cfg.PassingScore)
	}

	return cfg, nil
}

func splitCourses(raw string) []string {
	parts := strings.Split(raw, ",")
	courses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			courses = append(courses, trimmed)
		}
	}
	return courses
}
