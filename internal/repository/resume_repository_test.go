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

func newResumeTestFixture(t *testing.T) (ResumeRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewResumeRepository(mock), mock
}

var resumeColumns = []string{
	"id", "user_id", "user_info_id", "status", "title", "intro", "exp", "skill",
	"created_at", "updated_at", "name", "age", "gender", "profile_image",
}

func resumeRow(rows *pgxmock.Rows, id, userID int64, status domain.ResumeStatus, ownerName *string) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(id, userID, (*int64)(nil), status, "title", "intro", "exp", "go",
		now, now, ownerName, (*int)(nil), (*string)(nil), (*string)(nil))
}

func TestResumeRepository_Create(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	now := time.Now()
	resume := &domain.Resume{UserID: 3, Status: domain.ResumeStatusApply, Title: "t", Intro: "i", Exp: "e", Skill: "s"}
	mock.ExpectQuery("INSERT INTO resumes").
		WithArgs(int64(3), pgxmock.AnyArg(), domain.ResumeStatusApply, "t", "i", "e", "s").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(40), now, now))

	require.NoError(t, repo.Create(context.Background(), resume))
	assert.Equal(t, int64(40), resume.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeRepository_GetByID_WithOwner(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("LEFT JOIN user_infos ui").
		WithArgs(int64(40)).
		WillReturnRows(resumeRow(pgxmock.NewRows(resumeColumns), 40, 3, domain.ResumeStatusPass, strPtr("Alice")))

	resume, err := repo.GetByID(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusPass, resume.Status)
	require.NotNil(t, resume.Owner)
	assert.Equal(t, "Alice", *resume.Owner.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("FROM resumes r").WithArgs(int64(1)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestResumeRepository_List_Order(t *testing.T) {
	cases := []struct {
		name  string
		order ResumeOrder
		want  string
	}{
		{"id desc", ResumeOrder{Key: OrderByResumeID, Desc: true}, `ORDER BY r\.id DESC`},
		{"status asc", ResumeOrder{Key: OrderByStatus}, `ORDER BY r\.status ASC`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newResumeTestFixture(t)
			defer mock.Close()

			rows := pgxmock.NewRows(resumeColumns)
			resumeRow(rows, 2, 1, domain.ResumeStatusApply, nil)
			resumeRow(rows, 1, 1, domain.ResumeStatusDrop, strPtr("Bob"))
			mock.ExpectQuery(tc.want).WillReturnRows(rows)

			items, err := repo.List(context.Background(), tc.order)
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Nil(t, items[0].Owner)
			assert.NotNil(t, items[1].Owner)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestResumeRepository_List_RejectsUnknownKey(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	_, err := repo.List(context.Background(), ResumeOrder{Key: "title; DROP TABLE resumes"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeRepository_Update(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	resume := &domain.Resume{ID: 9, Status: domain.ResumeStatusInterview1, Title: "t", Intro: "i", Exp: "e", Skill: "s"}
	mock.ExpectQuery("UPDATE resumes SET").
		WithArgs(domain.ResumeStatusInterview1, "t", "i", "e", "s", int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	require.NoError(t, repo.Update(context.Background(), resume))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeRepository_Delete(t *testing.T) {
	repo, mock := newResumeTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM resumes").WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM resumes").WithArgs(int64(10)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 9))
	assert.ErrorIs(t, repo.Delete(context.Background(), 10), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
