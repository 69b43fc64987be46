package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	UserBlackList  = "blacklist:user:"
	TokenBlackList = "blacklist:token:"
)

var (
	ErrUserBanned       = errors.New("user is banned")
	ErrTokenBlacklisted = errors.New("token is blacklisted")
)

type Blacklist interface {
	BanUser(ctx context.Context, userID string, ttl time.Duration) error
	BanToken(ctx context.Context, token string, ttl time.Duration) error
	CheckUser(ctx context.Context, userID string) error
	CheckToken(ctx context.Context, token string) error
}

type RedisBlacklist struct {
	client      *redis.Client
	userPrefix  string
	tokenPrefix string
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{
		client:      client,
		userPrefix:  UserBlackList,
		tokenPrefix: TokenBlackList,
	}
}

func (b *RedisBlacklist) BanUser(ctx context.Context, userID string, ttl time.Duration) error {
	key := b.userPrefix + userID
	if err := b.client.Set(ctx, key, "user_banned", ttl).Err(); err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) BanToken(ctx context.Context, token string, ttl time.Duration) error {
	key := b.tokenPrefix + token
	if err := b.client.Set(ctx, key, "token_banned", ttl).Err(); err != nil {
		return fmt.Errorf("ban token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) CheckUser(ctx context.Context, userID string) error {
	key := b.userPrefix + userID
	_, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		return fmt.Errorf("check user blacklist: %w", err)
	}
	return ErrUserBanned
}

func (b *RedisBlacklist) CheckToken(ctx context.Context, token string) error {
	key := b.tokenPrefix + token
	_, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		return fmt.Errorf("check token blacklist: %w", err)
	}
	return ErrTokenBlacklisted
}
