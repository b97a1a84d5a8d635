package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raf-alpha/api-go/mailer"
	"github.com/raf-alpha/api-go/notify"
	"github.com/raf-alpha/api-go/otc"
	"github.com/raf-alpha/api-go/storage"
)

// NewImageStore builds the object store selected by storage.driver.
func NewImageStore(ctx context.Context, cfg StorageConfig) (storage.ImageStore, error) {
	switch cfg.Driver {
	case StorageR2:
		return storage.NewR2Store(storage.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicURL:       cfg.R2.PublicURL,
		}), nil
	case StorageMinio:
		s, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
			Location:  cfg.Minio.Location,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case StorageLocal:
		return storage.NewLocalStore(cfg.Local.Root, cfg.Local.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewCodeStore returns a redis-backed code store, or an in-memory one when
// redis is not configured.
func NewCodeStore(ctx context.Context, cfg RedisConfig, ttl time.Duration) (otc.Store, error) {
	if cfg.Host == "" {
		slog.Warn("redis not configured, verification codes are kept in memory")
		m, err := otc.NewMemory(ttl)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	r := otc.NewRedis(otc.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      ttl,
	})
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return r, nil
}

func NewMailer(cfg MailConfig, logger *slog.Logger) mailer.Mailer {
	if cfg.Host == "" {
		logger.Warn("smtp not configured, mails are logged")
		return mailer.Log{Logger: logger}
	}
	return mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

// NewPublisher wires the notification hub to kafka when brokers are set.
// The returned stop function is never nil.
func NewPublisher(ctx context.Context, cfg KafkaConfig, hub *notify.Hub) (notify.Publisher, func() error) {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return hub, func() error { return nil }
	}

	bridge := notify.NewKafkaBridge(hub, notify.KafkaConfig{
		Brokers: brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	bridge.Start(ctx)
	slog.Info("notifications bridged to kafka", "topic", cfg.Topic, "brokers", brokers)
	return bridge, bridge.Stop
}
