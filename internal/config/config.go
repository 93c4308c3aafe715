package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DBDriver    string // postgres / mysql
	DatabaseURL string // あれば最優先

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	MySQLDSN string // DB_DRIVER=mysql のとき

	RedisAddr   string // キャッシュ・営業状態（localhost:6379）
	RabbitMQURL string // 空ならイベント送信しない

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークン有効期限

	GoEnv string // dev/prod

	OrderTimeout     time.Duration // 未払い注文のタイムアウト（15分）
	DeliveryLookback time.Duration // 配達中→完了の判定（0なら現在時刻）
	TimeoutCron      string
	DeliveryCron     string
	CacheTTL         time.Duration

	AdminInitialPassword string // 初回起動で作る admin のパスワード（空なら既定値）
}

// デフォルト値
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "takeout")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_TTL", "2h")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("ORDER_TIMEOUT", "15m")
	v.SetDefault("DELIVERY_LOOKBACK", "0s")
	v.SetDefault("TIMEOUT_CRON", "* * * * *")
	v.SetDefault("DELIVERY_CRON", "0 1 * * *")
	v.SetDefault("CACHE_TTL", "0s")
}

// Loadは環境変数（.envは呼び出し側で読み込み済み）
func Load() (Config, error) {
	return LoadFrom(viper.New())
}

// テストから viper を差し込めるようにしている
func LoadFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port: v.GetString("PORT"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),

		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		MySQLDSN: v.GetString("MYSQL_DSN"),

		RedisAddr:   v.GetString("REDIS_ADDR"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		GoEnv: v.GetString("GO_ENV"),

		OrderTimeout:     v.GetDuration("ORDER_TIMEOUT"),
		DeliveryLookback: v.GetDuration("DELIVERY_LOOKBACK"),
		TimeoutCron:      v.GetString("TIMEOUT_CRON"),
		DeliveryCron:     v.GetString("DELIVERY_CRON"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),

		AdminInitialPassword: v.GetString("ADMIN_INITIAL_PASSWORD"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive")
	}
	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" && (cfg.PostgresHost == "" || cfg.PostgresDB == "") {
			return Config{}, fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required")
		}
	case "mysql":
		if cfg.MySQLDSN == "" && cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("MYSQL_DSN is required")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or mysql: %s", cfg.DBDriver)
	}
	if cfg.OrderTimeout <= 0 {
		return Config{}, fmt.Errorf("ORDER_TIMEOUT must be positive")
	}
	if cfg.DeliveryLookback < 0 {
		return Config{}, fmt.Errorf("DELIVERY_LOOKBACK must be >= 0")
	}
	//本番で既定パスワードの admin は作らない
	if cfg.IsProd() && cfg.AdminInitialPassword == "" {
		return Config{}, fmt.Errorf("ADMIN_INITIAL_PASSWORD is required in prod")
	}

	return cfg, nil
}

// ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}
