// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"contacts_backend/internal/platform/db"
)

// ErrMissingSecret はJWT_SECRETが設定されていない場合に返されます。
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// JWT はトークン署名の設定です。
type JWT struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Redis はIdentityキャッシュの接続設定です。
type Redis struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Addr はhost:port形式のアドレスを返します。
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

// Mail はSMTP送信の設定です。Serverが空ならメールはログに出力されるだけです。
type Mail struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Port        string
	BaseURL     string
	CORSOrigins []string
	LogLevel    slog.Level
	BcryptCost  int

	JWT   JWT
	Redis Redis
	DB    db.Config
	Mail  Mail
}

// Load は.envがあれば読み込み、環境変数から設定を組み立てます。
// 未設定の項目にはデフォルト値が入ります。数値として解釈できない値はエラーになります。
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv は.envを読まずに現在の環境変数だけから設定を組み立てます。
func FromEnv() (*Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := getInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Port:        getString("PORT", "8080"),
		BaseURL:     strings.TrimRight(getString("APP_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins: splitList(getString("CORS_ORIGINS", "*")),
		BcryptCost:  intVar("BCRYPT_COST", 10),
		JWT: JWT{
			Secret:     os.Getenv("JWT_SECRET"),
			Algorithm:  getString("JWT_ALGORITHM", "HS256"),
			AccessTTL:  time.Duration(intVar("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
			RefreshTTL: time.Duration(intVar("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		},
		Redis: Redis{
			Host:     getString("REDIS_HOST", "localhost"),
			Port:     getString("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intVar("REDIS_DB", 1),
			CacheTTL: time.Duration(intVar("CACHE_TTL_SECONDS", 900)) * time.Second,
		},
		DB: db.LoadConfigFromEnv(),
		Mail: Mail{
			Server:   os.Getenv("MAIL_SERVER"),
			Port:     intVar("MAIL_PORT", 465),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     os.Getenv("MAIL_FROM"),
			FromName: getString("MAIL_FROM_NAME", "Contacts API"),
		},
	}

	level, err := parseLevel(getString("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogLevel = level

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は起動に必須の項目を検証します。
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, ErrMissingSecret)
	}
	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be positive"))
	}
	if c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must be positive"))
	}
	if c.Mail.Server != "" && c.Mail.From == "" {
		errs = append(errs, errors.New("MAIL_FROM is required when MAIL_SERVER is set"))
	}
	return errors.Join(errs...)
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
