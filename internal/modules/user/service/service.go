package user

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thebestory/backend/internal/entity"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	"github.com/thebestory/backend/internal/modules/user/dto"
	repository "github.com/thebestory/backend/internal/modules/user/repository"
	"github.com/thebestory/backend/pkg/apperror"
	"github.com/thebestory/backend/pkg/identifier"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	allocator snowflake.Allocator
	secret    string
	tokenTTL  time.Duration
}

func NewAuthService(repo repository.UserRepository, allocator snowflake.Allocator, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		allocator: allocator,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.allocator.Allocate(ctx, entity.TypeUser)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           id,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                    identifier.To36(user.ID),
		Username:              user.Username,
		StoriesCount:          user.StoriesCount,
		CommentsCount:         user.CommentsCount,
		StoryReactionsCount:   user.StoryReactionsCount,
		CommentReactionsCount: user.CommentReactionsCount,
		RegisteredDate:        user.RegisteredDate,
	}
}
