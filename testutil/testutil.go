// Package testutil wires the global state against throwaway backends: a SQLite
// file per test, an in-process Redis and a silent logger.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"encore/config"
	"encore/state"
	"encore/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// WebhookSecret signs identity webhooks in tests.
var WebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("encore-test-webhook-secret"))

// WebhookHeaders signs body the way the identity provider does and returns the
// svix-* headers for it.
func WebhookHeaders(t testing.TB, secret, msgID string, ts time.Time, body []byte) http.Header {
	t.Helper()

	wh, err := svix.NewWebhook(secret)
	require.NoError(t, err)

	sig, err := wh.Sign(msgID, ts, body)
	require.NoError(t, err)

	h := http.Header{}
	h.Set("svix-id", msgID)
	h.Set("svix-timestamp", strconv.FormatInt(ts.Unix(), 10))
	h.Set("svix-signature", sig)
	return h
}

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
)

// SigningKey is the private half of the session key pair, generated once per
// test binary.
func SigningKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()

	keyOnce.Do(func() {
		var err error
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
	})

	return key
}

// PublicKeyPEM encodes the session verification key like the config file does.
func PublicKeyPEM(t testing.TB) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(&SigningKey(t).PublicKey)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// Token issues a session token for userID valid for an hour.
func Token(t testing.TB, userID string) string {
	t.Helper()

	now := time.Now()
	return TokenWithClaims(t, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
}

func TokenWithClaims(t testing.TB, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(SigningKey(t))
	require.NoError(t, err)

	return token
}

type Env struct {
	DB    *gorm.DB
	Redis *miniredis.Miniredis
}

// Setup points state at fresh backends for the duration of t. Tests using it
// must not run in parallel.
func Setup(t *testing.T) *Env {
	t.Helper()

	state.Logger = zap.NewNop()
	state.SetupValidator()
	state.Media = nil
	state.Config = &config.Config{
		Server: config.Server{
			Port:       ":0",
			Env:        "test",
			CORSOrigin: "*",
			PublicURL:  "http://localhost/",
		},
		Auth: config.Auth{
			SessionPublicKey: PublicKeyPEM(t),
			WebhookSecret:    WebhookSecret,
		},
	}

	dsn := filepath.Join(t.TempDir(), "encore.db") + "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"

	cfg := state.GormConfig()
	cfg.Logger = logger.Discard

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)
	require.NoError(t, state.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	state.Pool = db
	state.Redis = rdb

	t.Cleanup(func() {
		rdb.Close()
		sqlDB.Close()
		state.Pool = nil
		state.Redis = nil
	})

	return &Env{DB: db, Redis: mr}
}

// CreateUser inserts a user the way the identity webhook would.
func CreateUser(t testing.TB, id, username string) *types.User {
	t.Helper()

	u := types.User{
		ID:            id,
		Username:      username,
		DisplayName:   username,
		ReviewerLevel: types.ReviewerLevelSeedling,
	}
	require.NoError(t, state.Pool.Create(&u).Error)

	return &u
}

func CreateAdmin(t testing.TB, id, username string) *types.User {
	t.Helper()

	u := CreateUser(t, id, username)
	require.NoError(t, state.Pool.Model(u).UpdateColumn("is_admin", true).Error)
	u.IsAdmin = true

	return u
}
