package services

import (
	"context"
	"errors"
	"strings"

	"finance/src/metrics"
	"finance/src/models"
	"finance/src/repositories"
	"finance/src/utils"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using the given cost, or bcrypt's default
// when cost is outside the accepted range.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h bcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type AuthServiceI interface {
	Register(ctx context.Context, username, password, confirmation string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
}

type AuthService struct {
	accountRepo repositories.AccountRepository
	hasher      PasswordHasher
	metrics     *metrics.Metrics
}

func NewAuthService(accountRepo repositories.AccountRepository, hasher PasswordHasher, m *metrics.Metrics) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		hasher:      hasher,
		metrics:     m,
	}
}

// Register creates an account with the starting cash balance.
func (s *AuthService) Register(ctx context.Context, username, password, confirmation string) (*models.Account, error) {
	account, err := s.register(ctx, strings.TrimSpace(username), password, confirmation)

	logger := utils.LoggerFromContext(ctx).WithField("username", username)
	var userErr *Error
	switch {
	case err == nil:
		s.metrics.ObserveRegistration("success")
		logger.WithField("account_id", account.ID).Info("account registered")
	case errors.As(err, &userErr):
		s.metrics.ObserveRegistration(userErr.Kind.Error())
		logger.WithError(err).Info("registration rejected")
	default:
		s.metrics.ObserveRegistration("error")
		logger.WithError(err).Error("registration failed")
	}
	return account, err
}

func (s *AuthService) register(ctx context.Context, username, password, confirmation string) (*models.Account, error) {
	if username == "" {
		return nil, missingField("username")
	}
	if password == "" {
		return nil, missingField("password")
	}
	if password != confirmation {
		return nil, newError(ErrPasswordMismatch, "passwords do not match")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	account := &models.Account{Username: username, Hash: hash}
	if err := s.accountRepo.Create(ctx, account, nil); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, newError(ErrDuplicateUsername, "username is already taken")
		}
		return nil, err
	}
	return account, nil
}

// Login checks the credentials. Unknown usernames and wrong passwords give
// the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.login(ctx, strings.TrimSpace(username), password)

	var userErr *Error
	if err != nil && !errors.As(err, &userErr) {
		utils.LoggerFromContext(ctx).WithError(err).Error("login failed")
	}
	s.metrics.ObserveLogin(err == nil)
	return account, err
}

func (s *AuthService) login(ctx context.Context, username, password string) (*models.Account, error) {
	if username == "" {
		return nil, missingField("username")
	}
	if password == "" {
		return nil, missingField("password")
	}

	invalid := newError(ErrInvalidCredentials, "invalid username and/or password")
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(account.Hash, password) {
		return nil, invalid
	}
	return account, nil
}
