package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gate     GateConfig
	Policy   PolicyConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GateConfig はゲート解錠トークンの設定
type GateConfig struct {
	// Secret はトークン署名用の共有鍵（32バイト以上）
	Secret string
	// TokenTTL はトークンの有効期間
	TokenTTL time.Duration
}

// PolicyConfig は予約ポリシーの設定
type PolicyConfig struct {
	// CancellationGraceDays はキャンセルポリシーの猶予日数
	CancellationGraceDays int
}

// MinSecretLength はトークン署名鍵の最低バイト数
const MinSecretLength = 32

var (
	ErrGateSecretMissing  = errors.New("GATE_TOKEN_SECRET が設定されていません")
	ErrGateSecretTooShort = fmt.Errorf("GATE_TOKEN_SECRET は%dバイト以上が必要です", MinSecretLength)
	ErrInvalidGraceDays   = errors.New("CANCELLATION_GRACE_DAYS は0以上が必要です")
)

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "parking_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Gate: GateConfig{
			Secret:   os.Getenv("GATE_TOKEN_SECRET"),
			TokenTTL: getDurationEnv("GATE_TOKEN_TTL", time.Hour),
		},
		Policy: PolicyConfig{
			CancellationGraceDays: getIntEnv("CANCELLATION_GRACE_DAYS", 6),
		},
	}
}

// Validate は設定を起動時に検証する
// 署名鍵の不備はプロセスを起動させない（フェイルファスト）
func (c *Config) Validate() error {
	if c.Gate.Secret == "" {
		return ErrGateSecretMissing
	}
	if len(c.Gate.Secret) < MinSecretLength {
		return ErrGateSecretTooShort
	}
	if c.Policy.CancellationGraceDays < 0 {
		return ErrInvalidGraceDays
	}
	return nil
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
