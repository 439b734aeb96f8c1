package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_SignupAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestDB(t)
	notes := newTestNoteService(t, db)
	users := newTestUserService(t, db, notes)

	token, err := users.Signup(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	stored, err := users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-"+stored.ID, token)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.Equal(t, "alice", stored.Username)

	first, err := notes.CreateNote(ctx, stored.ID, "first", "body")
	require.NoError(t, err)
	second, err := notes.CreateNote(ctx, stored.ID, "second", "body")
	require.NoError(t, err)
	_, err = notes.ArchiveNote(ctx, first.ID, stored.ID)
	require.NoError(t, err)

	res, err := users.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "token-"+stored.ID, res.Token)
	assert.Equal(t, stored.Profile(), res.User)
	require.Len(t, res.Notes, 2, "login returns archived notes too")
	assert.Equal(t, second.ID, res.Notes[0].ID)
	assert.Equal(t, first.ID, res.Notes[1].ID)
}

func TestUserService_SignupErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestDB(t)
	users := newTestUserService(t, db, newTestNoteService(t, db))

	_, err := users.Signup(ctx, "bob", "bob@example.com", "pw")
	require.NoError(t, err)

	_, err = users.Signup(ctx, "bobby", "bob@example.com", "other")
	require.ErrorIs(t, err, ErrConflict)

	_, err = users.Signup(ctx, "nobody", "", "pw")
	require.ErrorIs(t, err, ErrValidation)

	_, err = users.Signup(ctx, "nobody", "x@example.com", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUserService_LoginFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestDB(t)
	users := newTestUserService(t, db, newTestNoteService(t, db))
	seedUser(t, users, "carol@example.com")

	_, err := users.Login(ctx, "carol@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_SignupDatabaseFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT id, username, email, password_hash, created_at FROM users WHERE email").
		WithArgs("dave@example.com").
		WillReturnError(boom)

	users := NewUserService(db, staticTokens{}, nil)
	_, err = users.Signup(context.Background(), "dave", "dave@example.com", "pw")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ConcurrentDuplicateSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := newTestDB(t)
	users := newTestUserService(t, db, newTestNoteService(t, db))
	// A realistic cost keeps hashing between the lookup and the insert.
	users.hashCost = 10

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = users.Signup(ctx, "u", "dup@example.com", "pw")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", "dup@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserService_SignupInsertUniqueViolation(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, username, email, password_hash, created_at FROM users WHERE email").
		WithArgs("erin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	users := NewUserService(db, staticTokens{}, nil)
	users.hashCost = bcrypt.MinCost
	_, err = users.Signup(context.Background(), "erin", "erin@example.com", "pw")
	require.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
