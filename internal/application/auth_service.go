package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-api/internal/domain/repository"
	"github.com/oksasatya/go-auth-api/pkg/helpers"
	"github.com/oksasatya/go-auth-api/pkg/validation"
)

// PasswordHasher produces and checks salted one-way password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Transactor runs fn against account and token stores that commit or roll
// back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(accounts repo.AccountRepository, tokens repo.TokenRepository) error) error
}

type Service struct {
	Accounts repo.AccountRepository
	Tokens   repo.TokenRepository
	Hasher   PasswordHasher
	Logger   *logrus.Logger
	TokenTTL time.Duration
	Tx       Transactor

	now       func() time.Time
	dummyHash string
}

type Option func(*Service)

// WithTokenTTL makes issued tokens expire after ttl. Zero disables expiry.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.TokenTTL = ttl }
}

// WithTransactor makes SignUp store the account and its first token
// atomically.
func WithTransactor(tx Transactor) Option {
	return func(s *Service) { s.Tx = tx }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(accounts repo.AccountRepository, tokens repo.TokenRepository, hasher PasswordHasher, logger *logrus.Logger, opts ...Option) (*Service, error) {
	switch {
	case accounts == nil:
		return nil, errors.New("account repository is required")
	case tokens == nil:
		return nil, errors.New("token repository is required")
	case hasher == nil:
		return nil, errors.New("password hasher is required")
	}
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	s := &Service{Accounts: accounts, Tokens: tokens, Hasher: hasher, Logger: logger, now: time.Now}
	for _, o := range opts {
		o(s)
	}

	// Unknown emails are verified against this hash so both login failures cost the same.
	secret, err := helpers.RandomSecret(24)
	if err != nil {
		return nil, err
	}
	if s.dummyHash, err = hasher.Hash(secret); err != nil {
		return nil, err
	}
	return s, nil
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IssuedToken is a freshly minted token. PlainText is never persisted.
type IssuedToken struct {
	PlainText string
	Token     *entity.SessionToken
}

type LoginResult struct {
	Account *entity.Account
	Token   *IssuedToken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, hashes the password and stores a new
// customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	return s.register(ctx, s.Accounts, in)
}

func (s *Service) register(ctx context.Context, accounts repo.AccountRepository, in RegisterInput) (*entity.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if v := validation.Validate(in); v != nil {
		return nil, &ValidationError{Violations: v}
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, infra("hash password", err)
	}

	acc := entity.NewCustomer(in.Name, in.Email, hash)
	if err := accounts.Insert(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		helpers.LogError(s.Logger, "insert account failed", err, nil)
		return nil, infra("insert account", err)
	}

	helpers.LogInfo(s.Logger, "account registered", logrus.Fields{"account_id": acc.ID, "role": acc.Role.String()})
	return acc, nil
}

// SignUp registers an account and logs it in straight away. With a
// Transactor both writes land together or not at all.
func (s *Service) SignUp(ctx context.Context, in RegisterInput) (*entity.Account, *IssuedToken, error) {
	if s.Tx == nil {
		acc, err := s.register(ctx, s.Accounts, in)
		if err != nil {
			return nil, nil, err
		}
		tok, err := s.issueToken(ctx, s.Tokens, acc)
		if err != nil {
			s.Logger.WithFields(logrus.Fields{"account_id": acc.ID}).Warn("account stored without a token")
			return nil, nil, err
		}
		return acc, tok, nil
	}

	var (
		acc *entity.Account
		tok *IssuedToken
	)
	err := s.Tx.WithinTx(ctx, func(accounts repo.AccountRepository, tokens repo.TokenRepository) error {
		var err error
		if acc, err = s.register(ctx, accounts, in); err != nil {
			return err
		}
		tok, err = s.issueToken(ctx, tokens, acc)
		return err
	})
	if err != nil {
		var (
			verr *ValidationError
			ierr *InfrastructureError
		)
		if errors.As(err, &verr) || errors.As(err, &ierr) || errors.Is(err, ErrEmailTaken) {
			return nil, nil, err
		}
		return nil, nil, infra("sign up", err)
	}
	return acc, tok, nil
}

// Login checks the credentials and issues a new token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if v := validation.Validate(in); v != nil {
		return nil, &ValidationError{Violations: v}
	}

	acc, err := s.Accounts.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		helpers.LogError(s.Logger, "find account failed", err, nil)
		return nil, infra("find account", err)
	}

	target := s.dummyHash
	if acc != nil {
		target = acc.PasswordHash
	}
	if !s.Hasher.Verify(in.Password, target) || acc == nil {
		s.Logger.Debug("login rejected")
		return nil, ErrInvalidCredentials
	}

	tok, err := s.issueToken(ctx, s.Tokens, acc)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Account: acc, Token: tok}, nil
}

// Logout revokes every token of accountID. It succeeds when none exist.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	if accountID == "" {
		return &ValidationError{Violations: []validation.FieldViolation{
			{Field: "account_id", Rule: "required", Message: "is required"},
		}}
	}
	n, err := s.Tokens.DeleteAllForAccount(ctx, accountID)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Error("revoke tokens failed")
		return infra("revoke tokens", err)
	}
	s.Logger.WithFields(logrus.Fields{"account_id": accountID, "revoked": n}).Info("account logged out")
	return nil
}

// ResolveToken maps a bearer value to its live token.
func (s *Service) ResolveToken(ctx context.Context, plain string) (*entity.SessionToken, error) {
	if plain == "" {
		return nil, ErrInvalidToken
	}
	tok, err := s.Tokens.FindByHash(ctx, entity.HashToken(plain))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, infra("find token", err)
	}
	if tok.IsExpiredAt(s.now()) {
		return nil, ErrInvalidToken
	}
	return tok, nil
}

func (s *Service) issueToken(ctx context.Context, tokens repo.TokenRepository, acc *entity.Account) (*IssuedToken, error) {
	tok, plain, err := entity.MintSessionToken(acc.ID, entity.DefaultTokenName, s.now(), s.TokenTTL)
	if err != nil {
		return nil, infra("mint token", err)
	}
	if err := tokens.Insert(ctx, tok); err != nil {
		helpers.LogError(s.Logger, "insert token failed", err, logrus.Fields{"account_id": acc.ID})
		return nil, infra("insert token", err)
	}
	return &IssuedToken{PlainText: plain, Token: tok}, nil
}
