package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mangiato/internal/cache"
	"mangiato/internal/jwt"
	"mangiato/internal/models"
	"mangiato/internal/notify"
	"mangiato/internal/repository"
)

var (
	ErrUserExists   = repository.ErrUserExists
	ErrUserNotFound = repository.ErrUserNotFound
	ErrInvalidToken = jwt.ErrInvalidToken

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotConfirmed       = errors.New("account not confirmed")
)

const takenTTL = time.Hour

// UserService defines the registration business logic
type UserService interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (*models.MessageResponse, error)
	Confirm(ctx context.Context, token string) (*models.ConfirmationResponse, error)
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	ConfirmationLink(token string) string
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *jwt.JWTService
	notifier notify.Notifier
	cache    cache.Cache
	baseURL  string
	log      *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new user service. cacheClient may be nil.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *jwt.JWTService,
	notifier notify.Notifier,
	cacheClient cache.Cache,
	baseURL string,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		notifier: notifier,
		cache:    cacheClient,
		baseURL:  baseURL,
		log:      log,
		now:      time.Now,
	}
}

func takenKey(username string) string {
	return fmt.Sprintf("user:taken:%s", username)
}

// Register stores a new unconfirmed account and sends the confirmation link
func (s *userService) Register(ctx context.Context, req *models.RegistrationRequest) (*models.MessageResponse, error) {
	taken, err := s.usernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Username, string(hashedPassword), req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			s.markTaken(ctx, req.Username)
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.markTaken(ctx, user.Username)

	s.log.Info("user_registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	token, err := s.tokens.GenerateConfirmationToken(user.Username)
	if err != nil {
		return nil, err
	}
	// The account exists at this point; a failed delivery is logged, not returned
	if err := s.notifier.SendConfirmation(ctx, user.Username, s.ConfirmationLink(token)); err != nil {
		s.log.Error("confirmation_mail_failed", zap.String("username", user.Username), zap.Error(err))
	}

	return &models.MessageResponse{Response: models.MsgMailSent}, nil
}

// usernameTaken checks the cache first, then the database
func (s *userService) usernameTaken(ctx context.Context, username string) (bool, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, takenKey(username)); err == nil && val == "taken" {
			return true, nil
		}
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		s.markTaken(ctx, username)
		return true, nil
	case errors.Is(err, repository.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *userService) markTaken(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, takenKey(username), "taken", takenTTL); err != nil {
		s.log.Warn("cache_set_failed", zap.String("username", username), zap.Error(err))
	}
}

// Confirm validates the token and confirms the matching account
func (s *userService) Confirm(ctx context.Context, token string) (*models.ConfirmationResponse, error) {
	username, err := s.tokens.ParseConfirmationToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.Confirmed {
		return &models.ConfirmationResponse{Response: models.MsgAlreadyConfirmed}, nil
	}

	if err := s.userRepo.Confirm(ctx, user.ID, s.now()); err != nil {
		return nil, err
	}

	s.log.Info("user_confirmed", zap.Int64("user_id", user.ID))

	return &models.ConfirmationResponse{
		IDUser:   user.ID,
		Response: fmt.Sprintf(models.MsgConfirmed, user.ID),
	}, nil
}

// Login checks the credentials of a confirmed account and issues an access token
func (s *userService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login_failed", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrNotConfirmed
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("user_logged_in", zap.Int64("user_id", user.ID))

	return &models.LoginResponse{
		Token:    token,
		Duration: int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ConfirmationLink expands the confirmation endpoint for a token
func (s *userService) ConfirmationLink(token string) string {
	return s.baseURL + "/v1/users/confirm/" + token
}
