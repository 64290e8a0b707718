package test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/decishop/storefront/api"
	"github.com/decishop/storefront/config"
	"github.com/decishop/storefront/core/cart"
	"github.com/decishop/storefront/database"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	pgHost    string
	redisAddr string

	// Each test env gets its own redis logical database.
	redisDB int64 = -1
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not connect to docker: %v\n", err)
		return 1
	}

	pg, err := pool.Run("postgres", "15-alpine", []string{"POSTGRES_PASSWORD=postgres"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres: %v\n", err)
		return 1
	}
	defer pool.Purge(pg)

	rd, err := pool.Run("redis", "7-alpine", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start redis: %v\n", err)
		return 1
	}
	defer pool.Purge(rd)

	pgHost = "localhost:" + pg.GetPort("5432/tcp")
	redisAddr = "localhost:" + rd.GetPort("6379/tcp")

	err = pool.Retry(func() error {
		db, err := database.Open(adminDB())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reach postgres: %v\n", err)
		return 1
	}

	err = pool.Retry(func() error {
		c := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer c.Close()
		return c.Ping(context.Background()).Err()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reach redis: %v\n", err)
		return 1
	}

	return m.Run()
}

func adminDB() config.DB {
	return config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       pgHost,
		Name:       "postgres",
		DisableTLS: true,
	}
}

type TestEnv struct {
	Server *httptest.Server
	URL    string
	DB     *sqlx.DB

	client *http.Client
}

// NewTestEnv builds a fully wired API over a dedicated database and redis
// logical db, so tests in this package cannot see each other's state. The
// name must be a valid postgres database name, unique per test.
func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	admin, err := database.Open(adminDB())
	if err != nil {
		return nil, fmt.Errorf("opening admin db connection: %w", err)
	}
	defer admin.Close()

	if _, err := admin.Exec("CREATE DATABASE " + name); err != nil {
		return nil, fmt.Errorf("creating database %s: %w", name, err)
	}

	cfg := adminDB()
	cfg.Name = name

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   int(atomic.AddInt64(&redisDB, 1)),
	})
	t.Cleanup(func() { rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	mux := api.APIMux(api.APIConfig{
		Log:       logger,
		DB:        db,
		Session:   session,
		CartStore: cart.NewStore(cart.NewRedisStorage(rdb, time.Hour), logger),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &TestEnv{
		Server: server,
		URL:    server.URL,
		DB:     db,
		client: &http.Client{Jar: jar},
	}, nil
}

// Client returns an http client holding the env's session cookie, the same
// way a browser would carry the cart across pages.
func (te *TestEnv) Client() *http.Client {
	return te.client
}
