package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"accounthub/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
// El hash de contraseña solo se recupera en las consultas *WithPassword.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (domain.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	ListPublic(ctx context.Context) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, name, email, password_hash, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	var avatarID, avatarURL *string
	if user.Avatar != nil {
		avatarID = &user.Avatar.PublicID
		avatarURL = &user.Avatar.URL
	}
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Mobile,
		user.Bio,
		user.IsPrivate,
		user.Role,
		avatarID,
		avatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, name, email, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id), false)
}

func (r *PgUserRepository) GetByIDWithPassword(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, name, email, password_hash, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id), true)
}

func (r *PgUserRepository) GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, name, email, password_hash, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email), true)
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, mobile = $4, bio = $5, is_private = $6, avatar_id = $7, avatar_url = $8, updated_at = $9
		WHERE id = $1
	`
	var avatarID, avatarURL *string
	if user.Avatar != nil {
		avatarID = &user.Avatar.PublicID
		avatarURL = &user.Avatar.URL
	}
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Mobile,
		user.Bio,
		user.IsPrivate,
		avatarID,
		avatarURL,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) ListPublic(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id, name, email, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at
		FROM users
		WHERE is_private = false
		ORDER BY created_at
	`
	return r.queryUsers(ctx, query)
}

func (r *PgUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id, name, email, mobile, bio, is_private, role, avatar_id, avatar_url, created_at, updated_at
		FROM users
		ORDER BY created_at
	`
	return r.queryUsers(ctx, query)
}

func (r *PgUserRepository) queryUsers(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows, false)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) scanUser(row pgx.Row, withPassword bool) (domain.User, error) {
	var u domain.User
	var avatarID, avatarURL *string
	dest := []any{&u.ID, &u.Name, &u.Email}
	if withPassword {
		dest = append(dest, &u.PasswordHash)
	}
	dest = append(dest, &u.Mobile, &u.Bio, &u.IsPrivate, &u.Role, &avatarID, &avatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return domain.User{}, err
	}
	if avatarID != nil && avatarURL != nil {
		u.Avatar = &domain.Avatar{PublicID: *avatarID, URL: *avatarURL}
	}
	return u, nil
}
