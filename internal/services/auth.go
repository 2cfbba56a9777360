package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/apierr"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	User  *types.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, tokenString string) (*AuthResult, error)
	ValidateToken(tokenString string) (*AccessClaims, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, secret string, tokenTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.New(http.StatusBadRequest, "invalid_email", fmt.Errorf("invalid email"))
	}
	if len(password) < 8 {
		return nil, apierr.New(http.StatusBadRequest, "weak_password", fmt.Errorf("password must be at least 8 characters"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		as.log.Error("Failed to check email", "error", err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		Role:      types.RoleOperator,
	}
	created, err := as.userRepo.Create(ctx, nil, []*types.User{user})
	if err != nil {
		as.log.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return as.issue(created[0])
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid credentials"))
		}
		as.log.Error("Failed to load user", "error", err)
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid credentials"))
	}
	return as.issue(user)
}

// Refresh re-issues a token for the bearer of a still-valid one. The user
// row is reloaded so role changes take effect on refresh.
func (as *authService) Refresh(ctx context.Context, tokenString string) (*AuthResult, error) {
	claims, err := as.ValidateToken(tokenString)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid token"))
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid token subject"))
	}
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		as.log.Error("Failed to load user", "error", err)
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("user no longer exists"))
	}
	return as.issue(users[0])
}

func (as *authService) issue(user *types.User) (*AuthResult, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "plantmetric",
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: signed}, nil
}

func (as *authService) ValidateToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return as.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
