package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/repositories"
)

// Error variables
var (
	ErrInvalidRegistration = errors.New("invalid registration details")
	ErrDuplicateContact    = errors.New("phone or email already registered")
	ErrInvalidCredentials  = errors.New("invalid account id or PIN")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
)

// ContactReader checks contact uniqueness during registration.
type ContactReader interface {
	GetByPhoneOrEmail(ctx context.Context, phone, email string) (*models.AccountDB, error)
}

// AccountCreator persists a new account.
type AccountCreator interface {
	Save(ctx context.Context, name, phone, email, pinHash string) (int64, error)
}

// LoginLimiter tracks failed PIN attempts per account.
type LoginLimiter interface {
	Failed(ctx context.Context, accountID int64) (int64, error)
	Count(ctx context.Context, accountID int64) (int64, error)
	Reset(ctx context.Context, accountID int64) error
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// registration holds the rules applied to new accounts: alphabetic name,
// exactly 10 digits of phone, a real email, a 4-digit PIN.
type registration struct {
	Name  string `validate:"required,alpha"`
	Phone string `validate:"required,len=10,number"`
	Email string `validate:"required,email"`
	PIN   string `validate:"required,len=4,number"`
}

// AuthService handles registration and login.
type AuthService struct {
	contacts    ContactReader
	accounts    AccountReader
	writer      AccountCreator
	limiter     LoginLimiter
	jwt         JWTGenerator
	validate    *validator.Validate
	maxAttempts int64
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	contacts ContactReader,
	accounts AccountReader,
	writer AccountCreator,
	limiter LoginLimiter,
	jwt JWTGenerator,
	maxAttempts int64,
) *AuthService {
	return &AuthService{
		contacts:    contacts,
		accounts:    accounts,
		writer:      writer,
		limiter:     limiter,
		jwt:         jwt,
		validate:    validator.New(),
		maxAttempts: maxAttempts,
	}
}

// Register creates a new account with a zero balance and returns its id.
func (svc *AuthService) Register(ctx context.Context, name, phone, email, pin string) (int64, error) {
	if err := svc.validate.Struct(registration{Name: name, Phone: phone, Email: email, PIN: pin}); err != nil {
		logger.Log.Warnw("invalid registration input", "err", err)
		return 0, ErrInvalidRegistration
	}

	existing, err := svc.contacts.GetByPhoneOrEmail(ctx, phone, email)
	if err != nil {
		logger.Log.Errorw("failed to check contact uniqueness", "err", err)
		return 0, err
	}
	if existing != nil {
		logger.Log.Errorw("contact already registered", "phone", phone, "email", email)
		return 0, ErrDuplicateContact
	}

	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash PIN", "err", err)
		return 0, err
	}

	id, err := svc.writer.Save(ctx, name, phone, email, string(hashedPIN))
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return 0, ErrDuplicateContact
		}
		logger.Log.Errorw("failed to save account", "err", err)
		return 0, err
	}

	return id, nil
}

// Login verifies the account PIN and returns a JWT token. Three failed
// attempts inside the limiter window lock the account out until it expires.
func (svc *AuthService) Login(ctx context.Context, accountID int64, pin string) (string, error) {
	count, err := svc.limiter.Count(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to read login attempts", "accountID", accountID, "err", err)
		return "", err
	}
	if count >= svc.maxAttempts {
		logger.Log.Warnw("account locked out", "accountID", accountID, "attempts", count)
		return "", ErrTooManyAttempts
	}

	account, err := svc.accounts.GetByID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to get account", "accountID", accountID, "err", err)
		return "", err
	}
	if account == nil {
		// Unknown ids consume an attempt too.
		if _, err := svc.limiter.Failed(ctx, accountID); err != nil {
			logger.Log.Errorw("failed to record login attempt", "accountID", accountID, "err", err)
		}
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PINHash), []byte(pin)); err != nil {
		if _, err := svc.limiter.Failed(ctx, accountID); err != nil {
			logger.Log.Errorw("failed to record login attempt", "accountID", accountID, "err", err)
		}
		logger.Log.Errorw("invalid PIN", "accountID", accountID)
		return "", ErrInvalidCredentials
	}

	if err := svc.limiter.Reset(ctx, accountID); err != nil {
		logger.Log.Errorw("failed to reset login attempts", "accountID", accountID, "err", err)
	}

	token, err := svc.jwt.Generate(ctx, account.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}
