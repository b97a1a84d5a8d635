package config

import (
	"fmt"
	"net/mail"
)

// Validate checks the rules env tags cannot express. Load calls it.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 || c.Auth.CodeTTL <= 0 {
		return fmt.Errorf("auth: token and code TTLs must be positive")
	}
	if (c.Auth.BootstrapEmail == "") != (c.Auth.BootstrapPassword == "") {
		return fmt.Errorf("auth: bootstrap_email and bootstrap_password must be set together")
	}
	if c.Auth.BootstrapEmail != "" {
		if _, err := mail.ParseAddress(c.Auth.BootstrapEmail); err != nil {
			return fmt.Errorf("auth.bootstrap_email: %w", err)
		}
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Kafka.Brokers != "" && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}

	return nil
}

func (s *StorageConfig) validate() error {
	if s.MaxImageSize <= 0 {
		return fmt.Errorf("max_image_size must be > 0 (got %d)", s.MaxImageSize)
	}

	switch s.Driver {
	case StorageR2:
		if s.R2.AccountID == "" || s.R2.AccessKeyID == "" || s.R2.SecretAccessKey == "" || s.R2.BucketName == "" {
			return fmt.Errorf("r2 requires account_id, access_key_id, secret_access_key and bucket_name")
		}
	case StorageMinio:
		if s.Minio.Endpoint == "" || s.Minio.Bucket == "" {
			return fmt.Errorf("minio requires endpoint and bucket")
		}
	case StorageLocal:
		if s.Local.Root == "" {
			return fmt.Errorf("local requires root")
		}
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	return nil
}
