package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.DialectSQLite))
	return db
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var (
		mu  sync.Mutex
		cur = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

type staticTokens struct{ prefix string }

func (s staticTokens) GenerateJWT(userID string) (string, error) {
	return s.prefix + userID, nil
}

func newTestNoteService(t *testing.T, db *sql.DB) *NoteService {
	t.Helper()
	svc := NewNoteService(db)
	svc.now = stepClock()
	return svc
}

func newTestUserService(t *testing.T, db *sql.DB, notes NoteServiceProvider) *UserService {
	t.Helper()
	svc := NewUserService(db, staticTokens{prefix: "token-"}, notes)
	svc.hashCost = bcrypt.MinCost
	return svc
}

// seedUser signs up a user and returns its ID.
func seedUser(t *testing.T, users *UserService, email string) string {
	t.Helper()
	ctx := context.Background()

	_, err := users.Signup(ctx, "user-"+email, email, "secret123")
	require.NoError(t, err)
	u, err := users.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	return u.ID
}
