package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port           string // 注文サービスのポート（8080）
	StorefrontPort string // ストアフロントのポート（3000）

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
	FEURL    string // フロントURL（CORSで使う）

	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	OrderAPIURL     string        // 注文サービスのベースURL
	OrderAPITimeout time.Duration // 注文サービス呼び出しのタイムアウト
	SessionTTL      time.Duration // 放置カートを捨てるまでの時間
	SweepInterval   time.Duration // 放置カート掃除の間隔
}

// IsProd は本番設定か
func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// DSN はPostgres接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// LoadAPI は注文サービス用の設定を環境変数から読む
func LoadAPI() (Config, error) {
	cfg, err := loadCommon()
	if err != nil {
		return Config{}, err
	}

	cfg.Port = getenv("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.PostgresHost = getenv("POSTGRES_HOST", "localhost")
	cfg.PostgresUser = getenv("POSTGRES_USER", "postgres")
	cfg.PostgresPassword = getenv("POSTGRES_PASSWORD", "postgres")
	cfg.PostgresDB = getenv("POSTGRES_DB", "app")
	cfg.PostgresSSLMode = getenv("POSTGRES_SSLMODE", "disable")

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cfg.PostgresPort = pgPort

	return cfg, nil
}

// LoadStorefront はストアフロント用の設定を環境変数から読む
func LoadStorefront() (Config, error) {
	cfg, err := loadCommon()
	if err != nil {
		return Config{}, err
	}

	cfg.StorefrontPort = getenv("STOREFRONT_PORT", "3000")
	cfg.OrderAPIURL = os.Getenv("ORDER_API_URL")

	if cfg.OrderAPITimeout, err = durationDefault("ORDER_API_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationDefault("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.OrderAPIURL == "" {
		return Config{}, fmt.Errorf("ORDER_API_URL is required")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

func loadCommon() (Config, error) {
	cfg := Config{
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		FEURL:    os.Getenv("FE_URL"),
	}

	switch cfg.GoEnv {
	case "dev", "prod", "test":
	default:
		return Config{}, fmt.Errorf("GO_ENV must be dev, prod or test: %q", cfg.GoEnv)
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
