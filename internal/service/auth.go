package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/playloop/tictactoe-server/internal/apperror"
)

const tokenTTL = 24 * time.Hour

// TokenClaims is the authenticated identity the transport layer hands to
// the game core.
type TokenClaims struct {
	UserID   string
	Username string
}

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error

	GenerateToken(userID, username string) (string, error)
	VerifyToken(tokenString string) (*TokenClaims, error)
}

type authService struct {
	secretKey string
}

func NewAuthService(secretKey string) AuthService {
	return &authService{
		secretKey: secretKey,
	}
}

func (that *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func (that *authService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperror.ErrInvalidCredentials
	}

	return nil
}

func (that *authService) GenerateToken(userID, username string) (string, error) {
	claims := jwt.MapClaims{}
	claims["sub"] = userID
	claims["name"] = username
	claims["exp"] = time.Now().Add(tokenTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (that *authService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", apperror.ErrInvalidToken, token.Header["alg"])
		}

		return []byte(that.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.ErrInvalidToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing subject", apperror.ErrInvalidToken)
	}

	username, ok := claims["name"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("%w: missing username", apperror.ErrInvalidToken)
	}

	return &TokenClaims{UserID: userID, Username: username}, nil
}
