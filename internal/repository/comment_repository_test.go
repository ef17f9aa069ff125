package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/resume-service/internal/domain"
)

var commentColumns = []string{"id", "resume_id", "user_id", "content", "created_at", "updated_at"}

func newCommentTestFixture(t *testing.T) (CommentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewCommentRepository(mock), mock
}

func TestCommentRepository_Create(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	now := time.Now()
	comment := &domain.Comment{ResumeID: 2, UserID: 5, Content: "nice"}
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(int64(2), int64(5), "nice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(77), now, now))

	require.NoError(t, repo.Create(context.Background(), comment))
	assert.Equal(t, int64(77), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID_ScopedToResume(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("FROM comments WHERE id=\\$1 AND resume_id=\\$2").
		WithArgs(int64(77), int64(2)).
		WillReturnRows(pgxmock.NewRows(commentColumns).AddRow(int64(77), int64(2), int64(5), "nice", now, now))
	mock.ExpectQuery("FROM comments WHERE id=\\$1 AND resume_id=\\$2").
		WithArgs(int64(77), int64(3)).
		WillReturnError(pgx.ErrNoRows)

	comment, err := repo.GetByID(context.Background(), 2, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(5), comment.UserID)

	_, err = repo.GetByID(context.Background(), 3, 77)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByResume(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(commentColumns).
			AddRow(int64(2), int64(2), int64(5), "second", now, now).
			AddRow(int64(1), int64(2), int64(6), "first", now.Add(-time.Minute), now))

	items, err := repo.ListByResume(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_UpdateAndDelete(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE comments SET content").
		WithArgs("edited", int64(77)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec("DELETE FROM comments").
		WithArgs(int64(77)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Update(context.Background(), &domain.Comment{ID: 77, Content: "edited"}))
	require.NoError(t, repo.Delete(context.Background(), 77))
	assert.NoError(t, mock.ExpectationsWereMet())
}
