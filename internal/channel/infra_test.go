package channel

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var channelCols = []string{"id", "bot_id", "channel_url", "channel_token", "created_at"}

func newMockRepo(t *testing.T) (Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepo(db), mock
}

func TestRepoFindByBotID(t *testing.T) {
	r, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM channels WHERE bot_id").
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(channelCols).AddRow("c1", "b1", "http://x/hook", "t1", now))

	ch, err := r.FindByBotID(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, &Channel{ID: "c1", BotID: "b1", URL: "http://x/hook", Token: "t1", CreatedAt: now}, ch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoFindByBotID_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("FROM channels WHERE bot_id").WithArgs("b1").WillReturnError(sql.ErrNoRows)

	_, err := r.FindByBotID(context.Background(), "b1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepoList(t *testing.T) {
	r, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM channels ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows(channelCols).
			AddRow("c1", "b1", "http://example1.com", "token123", now).
			AddRow("c2", "b1", "http://example2.com", "token123", now))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c2", list[1].ID)
}

func TestRepoList_Empty(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("FROM channels").WillReturnRows(sqlmock.NewRows(channelCols))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestRepoCreate(t *testing.T) {
	r, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO channels").
		WithArgs("c1", "b1", "http://x/hook", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	ch := &Channel{ID: "c1", BotID: "b1", URL: "http://x/hook", Token: "t1"}
	require.NoError(t, r.Create(context.Background(), ch))
	require.Equal(t, now, ch.CreatedAt)
}

func TestRepoUpdateAndDelete_Missing(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE channels").
		WithArgs("c1", "b1", "http://x").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM channels").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, r.Update(context.Background(), &Channel{ID: "c1", BotID: "b1", URL: "http://x"}), ErrNotFound)
	require.ErrorIs(t, r.Delete(context.Background(), "c1"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoDelete(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM channels").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Delete(context.Background(), "c1"))
}
