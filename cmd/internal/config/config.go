package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	SourceDatabase = "database"
	SourceSupabase = "supabase"

	AuthJWT     = "jwt"
	AuthCognito = "cognito"
)

type Config struct {
	Port               string
	LogLevel           string
	DBDriver           string
	DBDSN              string
	AvailabilitySource string
	SupabaseURL        string
	SupabaseServiceKey string
	AuthMode           string
	JWTSecret          string
	AWSRegion          string
	CognitoUserPoolID  string
	CORSOrigins        []string
}

// Load reads .env (if present) and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Warnf("no .env file loaded, using process environment: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Port:               getEnvOrDefault("PORT", "6060"),
		LogLevel:           strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		DBDriver:           strings.ToLower(getEnvOrDefault("DB_DRIVER", "sqlite")),
		DBDSN:              getEnvOrDefault("DB_DSN", "./database.db"),
		AvailabilitySource: strings.ToLower(getEnvOrDefault("AVAILABILITY_SOURCE", SourceDatabase)),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		AuthMode:           strings.ToLower(getEnvOrDefault("AUTH_MODE", AuthJWT)),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		CognitoUserPoolID:  os.Getenv("COGNITO_USER_POOL_ID"),
		CORSOrigins:        splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}

	switch c.AvailabilitySource {
	case SourceDatabase:
	case SourceSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required when AVAILABILITY_SOURCE=supabase"))
		}
	default:
		errs = append(errs, fmt.Errorf("AVAILABILITY_SOURCE must be database or supabase, got %q", c.AvailabilitySource))
	}

	switch c.AuthMode {
	case AuthJWT:
		if len(c.JWTSecret) < 16 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters when AUTH_MODE=jwt"))
		}
	case AuthCognito:
		if c.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required when AUTH_MODE=cognito"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be jwt or cognito, got %q", c.AuthMode))
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
}

// GommonLevel maps LOG_LEVEL onto gommon's levels, defaulting to INFO.
func (c *Config) GommonLevel() log.Lvl {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return log.INFO
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
