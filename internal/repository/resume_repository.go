package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/resume-service/internal/domain"
)

// ResumeOrderKey names a sortable resume attribute.
type ResumeOrderKey string

const (
	OrderByResumeID ResumeOrderKey = "resumeId"
	OrderByStatus   ResumeOrderKey = "status"
)

var resumeOrderColumns = map[ResumeOrderKey]string{
	OrderByResumeID: "r.id",
	OrderByStatus:   "r.status",
}

// Valid reports whether k maps to a sortable column.
func (k ResumeOrderKey) Valid() bool {
	_, ok := resumeOrderColumns[k]
	return ok
}

// ResumeOrder controls listing order.
type ResumeOrder struct {
	Key  ResumeOrderKey
	Desc bool
}

// ResumeRepository encapsulates resume persistence.
type ResumeRepository interface {
	Create(ctx context.Context, resume *domain.Resume) error
	Update(ctx context.Context, resume *domain.Resume) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Resume, error)
	List(ctx context.Context, order ResumeOrder) ([]domain.Resume, error)
}

type resumeRepository struct {
	db DB
}

// NewResumeRepository instantiates repository.
func NewResumeRepository(db DB) ResumeRepository {
	return &resumeRepository{db: db}
}

const resumeSelect = `
        SELECT r.id, r.user_id, r.user_info_id, r.status, r.title, r.intro, r.exp, r.skill,
               r.created_at, r.updated_at, ui.name, ui.age, ui.gender, ui.profile_image
        FROM resumes r
        LEFT JOIN user_infos ui ON ui.user_id = r.user_id`

func (r *resumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	const query = `
        INSERT INTO resumes (user_id, user_info_id, status, title, intro, exp, skill)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		resume.UserID,
		resume.UserInfoID,
		resume.Status,
		resume.Title,
		resume.Intro,
		resume.Exp,
		resume.Skill,
	).Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
}

func (r *resumeRepository) Update(ctx context.Context, resume *domain.Resume) error {
	const query = `
        UPDATE resumes SET status=$1, title=$2, intro=$3, exp=$4, skill=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		resume.Status,
		resume.Title,
		resume.Intro,
		resume.Exp,
		resume.Skill,
		resume.ID,
	).Scan(&resume.UpdatedAt)
}

func (r *resumeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM resumes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *resumeRepository) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	row := r.db.QueryRow(ctx, resumeSelect+` WHERE r.id=$1`, id)
	return scanResume(row)
}

func (r *resumeRepository) List(ctx context.Context, order ResumeOrder) ([]domain.Resume, error) {
	column, ok := resumeOrderColumns[order.Key]
	if !ok {
		return nil, fmt.Errorf("unsupported order key %q", order.Key)
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`%s ORDER BY %s %s, r.id DESC`, resumeSelect, column, direction)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *resume)
	}
	return result, rows.Err()
}

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var (
		resume domain.Resume
		owner  domain.ResumeOwner
	)
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.UserInfoID,
		&resume.Status,
		&resume.Title,
		&resume.Intro,
		&resume.Exp,
		&resume.Skill,
		&resume.CreatedAt,
		&resume.UpdatedAt,
		&owner.Name,
		&owner.Age,
		&owner.Gender,
		&owner.ProfileImage,
	); err != nil {
		return nil, err
	}
	if owner.Name != nil {
		resume.Owner = &owner
	}
	return &resume, nil
}
