package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	Scoring    ScoringConfig
	Discord    DiscordConfig
	Google     GoogleConfig
	Gemini     GeminiConfig
	ClickUp    ClickUpConfig
	Onboarding OnboardingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

// Enabled reports whether a Postgres host was configured; without one the
// service runs on in-process stores.
func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	RankTTL  time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type LogConfig struct {
	Level string
	JSON  bool
}

type ScoringConfig struct {
	SkillWeight        float64
	AvailabilityWeight float64
	// LevelWeights is keyed by level name, e.g. "expert" -> 100.
	LevelWeights map[string]float64
}

type DiscordConfig struct {
	BotToken       string
	GuildID        string
	AdminChannelID string
	// RoleIDs maps a role tag to the Discord role id granted on approval.
	RoleIDs map[string]string
	BaseURL string
}

type GoogleConfig struct {
	CredentialsFile     string
	RosterSpreadsheetID string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ClickUpConfig struct {
	APIToken string
	TeamID   string
	BaseURL  string
}

type OnboardingConfig struct {
	DefaultAvailableHours float64
}

const envProduction = "production"

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), envProduction) {
		_ = godotenv.Load()
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function so tests can feed
// a fixed environment.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optInt32 := func(key string) int32 {
		raw := opt(key)
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return 0
		}
		return int32(v)
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optBool := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                optDefault("DB_PORT", "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          optInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          optInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		MigrationsDir:         opt("DB_MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		RankTTL:  optDuration("REDIS_RANK_TTL", 60*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", 12*time.Hour),
	}

	cfg.Log = LogConfig{
		Level: optDefault("LOG_LEVEL", "info"),
		JSON:  optBool("LOG_JSON"),
	}

	levelWeights, err := ParseFloatMap(opt("SCORING_LEVEL_WEIGHTS"))
	if err != nil {
		invalid = append(invalid, "SCORING_LEVEL_WEIGHTS")
	}
	cfg.Scoring = ScoringConfig{
		SkillWeight:        optFloat("SCORING_SKILL_WEIGHT", 0.6),
		AvailabilityWeight: optFloat("SCORING_AVAILABILITY_WEIGHT", 0.4),
		LevelWeights:       levelWeights,
	}

	roleIDs, err := ParseStringMap(opt("DISCORD_ROLE_IDS"))
	if err != nil {
		invalid = append(invalid, "DISCORD_ROLE_IDS")
	}
	cfg.Discord = DiscordConfig{
		BotToken:       opt("DISCORD_BOT_TOKEN"),
		GuildID:        opt("DISCORD_GUILD_ID"),
		AdminChannelID: opt("DISCORD_ADMIN_CHANNEL_ID"),
		RoleIDs:        roleIDs,
		BaseURL:        opt("DISCORD_API_BASE_URL"),
	}

	cfg.Google = GoogleConfig{
		CredentialsFile:     opt("GOOGLE_CREDENTIALS_FILE"),
		RosterSpreadsheetID: opt("GOOGLE_ROSTER_SPREADSHEET_ID"),
	}

	cfg.Gemini = GeminiConfig{
		APIKey: opt("GEMINI_API_KEY"),
		Model:  opt("GEMINI_MODEL"),
	}

	cfg.ClickUp = ClickUpConfig{
		APIToken: opt("CLICKUP_API_TOKEN"),
		TeamID:   opt("CLICKUP_TEAM_ID"),
		BaseURL:  opt("CLICKUP_API_BASE_URL"),
	}

	cfg.Onboarding = OnboardingConfig{
		DefaultAvailableHours: optFloat("ONBOARDING_DEFAULT_AVAILABLE_HOURS", 40),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseStringMap parses "key=value,key2=value2". Keys are lower-cased.
func ParseStringMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		out[k] = v
	}
	return out, nil
}

func ParseFloatMap(raw string) (map[string]float64, error) {
	pairs, err := ParseStringMap(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(pairs))
	for k, v := range pairs {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number for %q: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}
