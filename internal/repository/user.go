package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playloop/tictactoe-server/internal/apperror"
	"github.com/playloop/tictactoe-server/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) (int64, error) {
	query := `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`

	result, err := that.conn.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return 0, fmt.Errorf("can't save user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("can't read inserted user id: %w", err)
	}

	return id, nil
}

func (that *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, username, email, password_hash FROM users WHERE email = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT id, username, email, password_hash FROM users WHERE id = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}
