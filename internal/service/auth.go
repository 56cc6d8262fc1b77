package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/board-service/internal/config"
	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/rabbitmq"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/BloggingApp/board-service/internal/repository/postgres"
	"github.com/BloggingApp/board-service/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	publisher  Publisher
	cfg        config.AuthConfig
	bcryptCost int
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, publisher Publisher, cfg config.AuthConfig) *authService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}

	return &authService{
		logger:     logger,
		repo:       repo,
		publisher:  publisher,
		cfg:        cfg,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.Postgres.User.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
	})
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}

		s.logger.Sugar().Errorf("failed to create user(%s): %s", req.Email, err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (string, error) {
	user, err := s.repo.Postgres.User.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", req.Email, err.Error())
		return "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(jwt.MapClaims{
		"id":       user.ID.String(),
		"email":    user.Email,
		"nickname": user.Nickname,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}, s.cfg.AccessSecret)
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for user(%s): %s", user.ID.String(), err.Error())
		return "", ErrInternal
	}

	return token, nil
}

func (s *authService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	return s.foundUser(user, err, id.String())
}

func (s *authService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	return s.foundUser(user, err, email)
}

func (s *authService) foundUser(user *model.User, err error, lookup string) (*model.User, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", lookup, err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

// UpdateNickname persists the change and announces it to the board service.
// A failed announcement is logged only: the board mirror catches up on the
// user's next post after model.CachedUserSyncThreshold.
func (s *authService) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*model.User, error) {
	user, err := s.repo.Postgres.User.UpdateNickname(ctx, id, nickname)
	if err != nil {
		return s.foundUser(nil, err, id.String())
	}

	if s.publisher != nil {
		msg := dto.MQUserInfoUpdatedMsg{
			UserID:    user.ID,
			Email:     user.Email,
			Nickname:  user.Nickname,
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishJSON(ctx, rabbitmq.USER_INFO_UPDATED_QUEUE, msg); err != nil {
			s.logger.Sugar().Errorf("failed to publish user(%s) update: %s", user.ID.String(), err.Error())
		}
	}

	return user, nil
}
