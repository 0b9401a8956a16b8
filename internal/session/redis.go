package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/configs"
	"taskboard/internal/config"
	"taskboard/pkg/logger"
)

// sidCookieName holds the random session id when the Redis backend is used;
// the token itself never leaves the server.
const sidCookieName = "taskboard_sid"

const sessionTTL = 24 * time.Hour

// ConnectRedis dials the session Redis and fails hard on startup if it is
// unreachable.
func ConnectRedis(cfg configs.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: "",
		DB:       0,
	})
	if err := client.Ping(config.Ctx).Err(); err != nil {
		logger.ErrorLogger.Error("Redis connection error", zap.Error(err))
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	return client
}

// RedisStore keeps tokens server-side under session:<id>, keyed by a random
// id cookie. Same Store contract as CookieStore.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(id string) string { return "session:" + id }

func (s *RedisStore) Token(c *fiber.Ctx) (string, bool) {
	id := c.Cookies(sidCookieName)
	if id == "" {
		return "", false
	}
	token, err := s.rdb.Get(config.Ctx, sessionKey(id)).Result()
	if err != nil {
		return "", false
	}
	return token, true
}

func (s *RedisStore) SetToken(c *fiber.Ctx, token string) error {
	id := c.Cookies(sidCookieName)
	if id == "" {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		id = hex.EncodeToString(buf)
	}
	if err := s.rdb.Set(config.Ctx, sessionKey(id), token, sessionTTL).Err(); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sidCookieName,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *RedisStore) ClearToken(c *fiber.Ctx) {
	if id := c.Cookies(sidCookieName); id != "" {
		_ = s.rdb.Del(config.Ctx, sessionKey(id)).Err()
	}
	c.Cookie(&fiber.Cookie{
		Name:     sidCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
