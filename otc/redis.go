package otc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Issue(ctx context.Context, p Purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(p, email), code, r.ttl)
		pipe.Del(ctx, triesKey(p, email))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store code in redis: %w", err)
	}
	return code, nil
}

// redeemScript returns 1 when the code matched and was consumed, 0 when there
// is no code, and -1 on a miss. The miss counter shares the code's TTL and the
// code is dropped once the counter reaches ARGV[2].
var redeemScript = redis.NewScript(`
local code = redis.call('GET', KEYS[1])
if not code then
	return 0
end
if code == ARGV[1] then
	redis.call('DEL', KEYS[1], KEYS[2])
	return 1
end
local tries = redis.call('INCR', KEYS[2])
if tries == 1 then
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl > 0 then
		redis.call('PEXPIRE', KEYS[2], ttl)
	end
end
if tries >= tonumber(ARGV[2]) then
	redis.call('DEL', KEYS[1], KEYS[2])
end
return -1
`)

func (r *Redis) Redeem(ctx context.Context, p Purpose, email, code string) error {
	res, err := redeemScript.Run(ctx, r.rdb,
		[]string{key(p, email), triesKey(p, email)},
		code, MaxAttempts,
	).Int()
	if err != nil {
		return fmt.Errorf("redeem code in redis: %w", err)
	}
	if res != 1 {
		return ErrInvalidCode
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
