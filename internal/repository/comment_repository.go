package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/resume-service/internal/domain"
)

// CommentRepository manages resume comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, resumeID, commentID int64) (*domain.Comment, error)
	ListByResume(ctx context.Context, resumeID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	db DB
}

// NewCommentRepository builds repository.
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (resume_id, user_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		comment.ResumeID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET content=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query, comment.Content, comment.ID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, resumeID, commentID int64) (*domain.Comment, error) {
	const query = `
        SELECT id, resume_id, user_id, content, created_at, updated_at
        FROM comments WHERE id=$1 AND resume_id=$2`
	var comment domain.Comment
	if err := r.db.QueryRow(ctx, query, commentID, resumeID).Scan(
		&comment.ID,
		&comment.ResumeID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByResume(ctx context.Context, resumeID int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, resume_id, user_id, content, created_at, updated_at
        FROM comments WHERE resume_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ResumeID,
			&comment.UserID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
