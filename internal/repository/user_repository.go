package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/resume-service/internal/domain"
	apperrors "github.com/spec-kit/resume-service/pkg/util/errorutil"
)

// UserRepository defines persistence access for accounts, profiles and
// profile history.
type UserRepository interface {
	CreateWithInfo(ctx context.Context, user *domain.User, info *domain.UserInfo) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByClientID(ctx context.Context, clientID string) (*domain.User, error)
	GetInfo(ctx context.Context, userID int64) (*domain.UserInfo, error)
	UpdateInfo(ctx context.Context, info *domain.UserInfo, changes []domain.UserHistory) error
	ListHistory(ctx context.Context, userID int64) ([]domain.UserHistory, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, client_id, password_hash, role, created_at, updated_at`

// CreateWithInfo inserts the account and its profile in one transaction.
func (r *userRepository) CreateWithInfo(ctx context.Context, user *domain.User, info *domain.UserInfo) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var passwordHash *string
	if user.PasswordHash != "" {
		passwordHash = &user.PasswordHash
	}

	const insertUser = `
        INSERT INTO users (email, client_id, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertUser,
		user.Email,
		user.ClientID,
		passwordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("account already exists", nil)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	info.UserID = user.ID
	const insertInfo = `
        INSERT INTO user_infos (user_id, name, age, gender, profile_image)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertInfo,
		info.UserID,
		info.Name,
		info.Age,
		info.Gender,
		info.ProfileImage,
	).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt); err != nil {
		return fmt.Errorf("insert user info: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchUser(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchUser(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByClientID(ctx context.Context, clientID string) (*domain.User, error) {
	return r.fetchUser(ctx, `SELECT `+userColumns+` FROM users WHERE client_id=$1`, clientID)
}

func (r *userRepository) fetchUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user         domain.User
		passwordHash *string
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.ClientID,
		&passwordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	return &user, nil
}

func (r *userRepository) GetInfo(ctx context.Context, userID int64) (*domain.UserInfo, error) {
	const query = `
        SELECT id, user_id, name, age, gender, profile_image, created_at, updated_at
        FROM user_infos WHERE user_id=$1`

	var info domain.UserInfo
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&info.ID,
		&info.UserID,
		&info.Name,
		&info.Age,
		&info.Gender,
		&info.ProfileImage,
		&info.CreatedAt,
		&info.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateInfo saves the profile and appends one history row per change in a
// single transaction.
func (r *userRepository) UpdateInfo(ctx context.Context, info *domain.UserInfo, changes []domain.UserHistory) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const update = `
        UPDATE user_infos SET name=$1, age=$2, gender=$3, profile_image=$4, updated_at=NOW()
        WHERE user_id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		info.Name,
		info.Age,
		info.Gender,
		info.ProfileImage,
		info.UserID,
	).Scan(&info.UpdatedAt); err != nil {
		return err
	}

	const insertHistory = `
        INSERT INTO user_histories (user_id, changed_field, old_value, new_value)
        VALUES ($1, $2, $3, $4)`
	for _, change := range changes {
		if _, err := tx.Exec(ctx, insertHistory,
			info.UserID,
			change.ChangedField,
			change.OldValue,
			change.NewValue,
		); err != nil {
			return fmt.Errorf("insert user history: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *userRepository) ListHistory(ctx context.Context, userID int64) ([]domain.UserHistory, error) {
	const query = `
        SELECT id, user_id, changed_field, COALESCE(old_value, ''), COALESCE(new_value, ''), created_at
        FROM user_histories WHERE user_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserHistory
	for rows.Next() {
		var history domain.UserHistory
		if err := rows.Scan(
			&history.ID,
			&history.UserID,
			&history.ChangedField,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
