package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRedis spins up a throwaway redis container. Tests are skipped when
// no docker daemon is reachable.
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.Run("redis", "7-alpine", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var rdb *redis.Client
	err = pool.Retry(func() error {
		rdb = redis.NewClient(&redis.Options{
			Addr: "localhost:" + resource.GetPort("6379/tcp"),
		})
		return rdb.Ping(context.Background()).Err()
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newRedisApp(rdb *redis.Client) *fiber.App {
	store := NewRedisStore(rdb)
	app := fiber.New()
	app.Post("/set", func(c *fiber.Ctx) error {
		if err := store.SetToken(c, c.Query("token")); err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/get", func(c *fiber.Ctx) error {
		token, ok := store.Token(c)
		if !ok {
			return c.SendString("<none>")
		}
		return c.SendString(token)
	})
	app.Post("/clear", func(c *fiber.Ctx) error {
		store.ClearToken(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sidCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == sidCookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", sidCookieName)
	return nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	rdb := startRedis(t)
	app := newRedisApp(rdb)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/set?token=tok-redis", nil))
	require.NoError(t, err)
	ck := sidCookie(t, resp)
	assert.NotContains(t, ck.Value, "tok-redis", "cookie must only carry the session id")

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(ck)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "tok-redis", bodyString(t, resp))
}

func TestRedisStoreClearDeletesServerSide(t *testing.T) {
	rdb := startRedis(t)
	app := newRedisApp(rdb)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/set?token=tok-redis", nil))
	require.NoError(t, err)
	ck := sidCookie(t, resp)

	req := httptest.NewRequest(http.MethodPost, "/clear", nil)
	req.AddCookie(ck)
	_, err = app.Test(req)
	require.NoError(t, err)

	// Even replaying the old session id cookie finds nothing
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(ck)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "<none>", bodyString(t, resp))
}

func TestRedisStoreUnknownSessionID(t *testing.T) {
	rdb := startRedis(t)
	app := newRedisApp(rdb)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(&http.Cookie{Name: sidCookieName, Value: "deadbeefdeadbeefdeadbeefdeadbeef"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "<none>", bodyString(t, resp))
}
