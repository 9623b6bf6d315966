package repository

import (
	"context"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/db"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeDB(conn))
	return conn
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	missing, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	user := &models.User{Username: "alice"}
	require.NoError(t, repo.CreateUser(ctx, user, "s3cret!"))
	assert.NotZero(t, user.ID)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("s3cret!")))

	err = repo.CreateUser(ctx, &models.User{Username: "alice"}, "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestStatsRepository(t *testing.T) {
	conn := setupDB(t)
	users := NewUserRepository(conn)
	repo := NewStatsRepository(conn)
	ctx := context.Background()

	user := &models.User{Username: "bob"}
	require.NoError(t, users.CreateUser(ctx, user, "password"))

	empty, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{UserID: user.ID}, *empty)

	for _, result := range []models.GameResult{models.ResultWin, models.ResultLoss, models.ResultLoss, models.ResultDraw} {
		require.NoError(t, repo.RecordResult(ctx, user.ID, result))
	}

	stats, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{UserID: user.ID, Wins: 1, Losses: 2, Draws: 1}, *stats)
	assert.Equal(t, 4, stats.Total())

	assert.Error(t, repo.RecordResult(ctx, user.ID, "forfeit"))
}
