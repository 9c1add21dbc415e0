package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/playloop/tictactoe-server/internal/apperror"
	"github.com/playloop/tictactoe-server/internal/entity"
	"github.com/playloop/tictactoe-server/internal/service"
)

type authService interface {
	GenerateToken(userID, username string) (string, error)
	VerifyToken(tokenString string) (*service.TokenClaims, error)
}

type userService interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type handler struct {
	logger *slog.Logger

	auth  authService
	users userService
}

func newHandler(logger *slog.Logger, auth authService, users userService) *handler {
	return &handler{
		logger: logger.With("component", "rest"),
		auth:   auth,
		users:  users,
	}
}

func (that *handler) Ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}

func (that *handler) Register(ctx echo.Context) error {
	log := that.logger.With("method", "Register")

	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}

	user, err := that.users.Register(ctx.Request().Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, apperror.ErrUserAlreadyExists) {
		return ctx.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	}
	if err != nil {
		log.Error("failed to register user", "error", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return that.respondWithToken(ctx, http.StatusCreated, user)
}

func (that *handler) Login(ctx echo.Context) error {
	log := that.logger.With("method", "Login")

	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user, err := that.users.Login(ctx.Request().Context(), req.Email, req.Password)
	if errors.Is(err, apperror.ErrInvalidCredentials) {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}
	if err != nil {
		log.Error("failed to login user", "error", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return that.respondWithToken(ctx, http.StatusOK, user)
}

func (that *handler) Me(ctx echo.Context) error {
	claims, err := that.claimsFromRequest(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"userId":   claims.UserID,
		"username": claims.Username,
	})
}

func (that *handler) respondWithToken(ctx echo.Context, status int, user *entity.User) error {
	userID := strconv.FormatInt(user.ID, 10)

	token, err := that.auth.GenerateToken(userID, user.Username)
	if err != nil {
		that.logger.Error("failed to generate token", "error", err)
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return ctx.JSON(status, authResponse{
		Token:    token,
		UserID:   userID,
		Username: user.Username,
	})
}

func (that *handler) claimsFromRequest(ctx echo.Context) (*service.TokenClaims, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)

	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return nil, apperror.ErrInvalidToken
	}

	return that.auth.VerifyToken(tokenString)
}
