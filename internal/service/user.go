package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/playloop/tictactoe-server/internal/apperror"
	"github.com/playloop/tictactoe-server/internal/entity"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userService struct {
	repo userRepo
	auth AuthService
}

func NewUserService(repo userRepo, auth AuthService) UserService {
	return &userService{
		repo: repo,
		auth: auth,
	}
}

func (that *userService) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	_, err := that.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.ErrUserAlreadyExists
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := that.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	id, err := that.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	user.ID = id

	return user, nil
}

func (that *userService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := that.repo.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err = that.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return user, nil
}
