package config

import (
	"strings"
	"time"
)

// Config is the root configuration of the admin API.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Mail     MailConfig     `yaml:"mail"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	Mode            string        `yaml:"mode"             env:"GIN_MODE"                env-default:"release"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,Accept-Language"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// DatabaseConfig describes the postgres connection. URL wins over the parts.
type DatabaseConfig struct {
	URL      string `yaml:"url"      env:"DATABASE_URL"`
	Host     string `yaml:"host"     env:"DB_HOST"     env-default:"localhost"`
	Port     string `yaml:"port"     env:"DB_PORT"     env-default:"5432"`
	User     string `yaml:"user"     env:"DB_USER"     env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name"     env:"DB_NAME"     env-default:"raf"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE"  env-default:"disable"`
	// AutoMigrate runs gorm's AutoMigrate on startup.
	AutoMigrate  bool          `yaml:"auto_migrate"   env:"DB_AUTO_MIGRATE"   env-default:"true"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"  env:"DB_CONN_LIFETIME"  env-default:"1h"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"JWT_SECRET"        env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"ACCESS_TOKEN_TTL"  env-default:"24h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	CodeTTL         time.Duration `yaml:"code_ttl"          env:"CODE_TTL"          env-default:"10m"`
	// The SuperAdmin created when the users table is empty.
	BootstrapEmail    string `yaml:"bootstrap_email"    env:"BOOTSTRAP_EMAIL"`
	BootstrapPassword string `yaml:"bootstrap_password" env:"BOOTSTRAP_PASSWORD"`
}

const (
	StorageR2    = "r2"
	StorageMinio = "minio"
	StorageLocal = "local"
)

type StorageConfig struct {
	Driver       string `yaml:"driver"         env:"STORAGE_DRIVER"         env-default:"r2"`
	MaxImageSize int64  `yaml:"max_image_size" env:"STORAGE_MAX_IMAGE_SIZE" env-default:"10485760"`

	R2    R2Config    `yaml:"r2"`
	Minio MinioConfig `yaml:"minio"`
	Local LocalConfig `yaml:"local"`
}

type R2Config struct {
	AccountID       string `yaml:"account_id"        env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `yaml:"access_key_id"     env:"CLOUDFLARE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"CLOUDFLARE_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name"       env:"CLOUDFLARE_BUCKET_NAME"`
	PublicURL       string `yaml:"public_url"        env:"CLOUDFLARE_PUBLIC_URL"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"   env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl"    env:"MINIO_USE_SSL"    env-default:"false"`
	Bucket    string `yaml:"bucket"     env:"MINIO_BUCKET"     env-default:"raf"`
	Location  string `yaml:"location"   env:"MINIO_LOCATION"   env-default:"us-east-1"`
	PublicURL string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
}

type LocalConfig struct {
	Root    string `yaml:"root"     env:"LOCAL_STORAGE_ROOT"     env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env:"LOCAL_STORAGE_BASE_URL" env-default:"/uploads"`
}

// RedisConfig is optional. Without a host, codes live in process memory.
type RedisConfig struct {
	Host     string `yaml:"host"     env:"REDIS_HOST"`
	Port     string `yaml:"port"     env:"REDIS_PORT"     env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// KafkaConfig is optional. Without brokers, notifications stay in-process.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"  env:"KAFKA_BROKERS"`
	Topic   string `yaml:"topic"    env:"KAFKA_TOPIC"    env-default:"raf.notifications"`
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"raf-api"`
}

func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

// MailConfig is optional. Without a host, mails are written to the log.
type MailConfig struct {
	Host     string `yaml:"host"     env:"SMTP_HOST"`
	Port     string `yaml:"port"     env:"SMTP_PORT"     env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from"     env:"SMTP_FROM"     env-default:"no-reply@raf.sa"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
