package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
	"github.com/FocusFish/USM/internal/infra/security"
	"github.com/FocusFish/USM/internal/repository"
)

var (
	// ErrUserNameRequired indicates the login request carried no user name.
	ErrUserNameRequired = errors.New("user name is required")
	// ErrPasswordRequired indicates the login request carried no password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrChallengeRequired indicates the challenge request is incomplete.
	ErrChallengeRequired = errors.New("challenge and response are required")
)

// Reason recorded on accounts locked by the failure threshold.
const lockoutReason = "Consecutive login failures"

const stripeCount = 64

// AuthService implements the login state machine. Attempts for the same
// user name serialize on a striped mutex and persist their bookkeeping in a
// single transaction, so the failure counter never races.
type AuthService struct {
	tx         port.AccountTxRunner
	accounts   port.AccountRepository
	challenges port.ChallengeRepository
	policies   *PolicyProvider
	events     port.EventPublisher
	logger     *zap.Logger

	stripes [stripeCount]sync.Mutex
}

// NewAuthService constructs the authentication engine.
func NewAuthService(
	tx port.AccountTxRunner,
	accounts port.AccountRepository,
	challenges port.ChallengeRepository,
	policies *PolicyProvider,
	events port.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tx:         tx,
		accounts:   accounts,
		challenges: challenges,
		policies:   policies,
		events:     events,
		logger:     logger,
	}
}

func (s *AuthService) stripe(userName string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userName))
	return &s.stripes[h.Sum32()%stripeCount]
}

// AuthenticateUser performs a password login. Normal failures come back as
// a response with Authenticated=false; errors mean the attempt could not be
// evaluated at all.
func (s *AuthService) AuthenticateUser(ctx context.Context, request domain.AuthenticationRequest) (domain.AuthenticationResponse, error) {
	if request.UserName == "" {
		return domain.AuthenticationResponse{}, ErrUserNameRequired
	}
	if request.Password == "" {
		return domain.AuthenticationResponse{}, ErrPasswordRequired
	}

	return s.login(ctx, request.UserName, func(_ context.Context, account *domain.UserAccount) (bool, error) {
		return security.VerifyPassword(request.Password, account.PasswordHash)
	})
}

// AuthenticateChallenge performs a challenge/response login through the same
// state machine as password login.
func (s *AuthService) AuthenticateChallenge(ctx context.Context, request domain.ChallengeResponse) (domain.AuthenticationResponse, error) {
	if request.UserName == "" {
		return domain.AuthenticationResponse{}, ErrUserNameRequired
	}
	if request.Challenge == "" || request.Response == "" {
		return domain.AuthenticationResponse{}, ErrChallengeRequired
	}

	return s.login(ctx, request.UserName, func(ctx context.Context, _ *domain.UserAccount) (bool, error) {
		return s.challenges.Verify(ctx, request)
	})
}

// login runs the shared state machine under the per-user stripe lock and a
// single storage transaction. The verify callback decides credential match
// for the concrete mechanism.
func (s *AuthService) login(ctx context.Context, userName string, verify func(context.Context, *domain.UserAccount) (bool, error)) (domain.AuthenticationResponse, error) {
	lock := s.stripe(userName)
	lock.Lock()
	defer lock.Unlock()

	var (
		response domain.AuthenticationResponse
		locked   bool
	)

	err := s.tx.WithAccountLock(ctx, func(ctx context.Context, accounts port.AccountRepository) error {
		account, err := accounts.GetByUserNameForUpdate(ctx, userName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Unknown user and wrong password are indistinguishable
				// to the caller.
				response = domain.AuthenticationResponse{StatusCode: domain.AuthInvalidCredentials}
				return nil
			}
			return fmt.Errorf("lookup account: %w", err)
		}

		now := time.Now().UTC()

		switch account.Status {
		case domain.AccountStatusDisabled:
			response = domain.AuthenticationResponse{StatusCode: domain.AuthAccountDisabled}
			return nil
		case domain.AccountStatusLocked:
			if !account.IsLockoutExpired(now) {
				response = domain.AuthenticationResponse{StatusCode: domain.AuthAccountLocked}
				return nil
			}
			if err := accounts.Unlock(ctx, userName); err != nil {
				return fmt.Errorf("unlock account: %w", err)
			}
			account.Status = domain.AccountStatusEnabled
			account.LogonFailures = 0
		}

		ok, err := verify(ctx, account)
		if err != nil {
			return fmt.Errorf("verify credential: %w", err)
		}

		if !ok {
			if err := accounts.RecordLoginFailure(ctx, userName); err != nil {
				return fmt.Errorf("record login failure: %w", err)
			}

			policy, err := s.lockoutPolicy(ctx)
			if err != nil {
				return err
			}

			if account.LogonFailures+1 >= policy.MaxFailures {
				if err := accounts.Lock(ctx, userName, lockoutReason, now.Add(policy.LockoutDuration)); err != nil {
					return fmt.Errorf("lock account: %w", err)
				}
				locked = true
			}

			response = domain.AuthenticationResponse{StatusCode: domain.AuthInvalidCredentials}
			return nil
		}

		if err := accounts.RecordLoginSuccess(ctx, userName, now); err != nil {
			return fmt.Errorf("record login success: %w", err)
		}

		response = domain.AuthenticationResponse{
			Authenticated: true,
			StatusCode:    domain.AuthSuccess,
			ExpiryDate:    account.PasswordExpiry,
		}
		return nil
	})
	if err != nil {
		return domain.AuthenticationResponse{}, err
	}

	s.publishLogin(ctx, userName, response, locked)

	return response, nil
}

func (s *AuthService) lockoutPolicy(ctx context.Context) (LockoutPolicy, error) {
	props, err := s.policies.GetProperties(ctx, PolicySubjectAccount)
	if err != nil {
		return LockoutPolicy{}, fmt.Errorf("load lockout policy: %w", err)
	}
	return LockoutPolicyFrom(props), nil
}

func (s *AuthService) publishLogin(ctx context.Context, userName string, response domain.AuthenticationResponse, locked bool) {
	if s.events == nil {
		return
	}

	event := domain.LoginEvent{
		EventID:    uuid.NewString(),
		UserName:   userName,
		Succeeded:  response.Authenticated,
		StatusCode: response.StatusCode,
		Locked:     locked,
		At:         time.Now().UTC(),
	}

	if err := s.events.PublishLogin(ctx, event); err != nil {
		s.logger.Warn("publish login event failed",
			zap.String("user_name", userName),
			zap.Error(err),
		)
	}
}

// GetUserChallenge returns the stored challenge question for a user, nil
// when the user has none.
func (s *AuthService) GetUserChallenge(ctx context.Context, userName string) (*domain.ChallengeResponse, error) {
	if userName == "" {
		return nil, ErrUserNameRequired
	}

	challenges, err := s.challenges.ListByUserName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	if len(challenges) == 0 {
		return nil, nil
	}

	challenge := challenges[0]
	challenge.Response = ""
	return &challenge, nil
}

// PasswordExpiryStatus reports the extStatus signal for a user's password:
// 701 when expired, 773 inside the warning window, 0 otherwise.
func (s *AuthService) PasswordExpiryStatus(ctx context.Context, userName string) (int, error) {
	if userName == "" {
		return domain.PasswordStatusOK, ErrUserNameRequired
	}

	expiry, err := s.accounts.GetPasswordExpiry(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PasswordStatusOK, nil
		}
		return domain.PasswordStatusOK, fmt.Errorf("load password expiry: %w", err)
	}
	if expiry == nil {
		return domain.PasswordStatusOK, nil
	}

	now := time.Now().UTC()
	if !expiry.After(now) {
		return domain.PasswordStatusExpired, nil
	}

	props, err := s.policies.GetProperties(ctx, PolicySubjectPassword)
	if err != nil {
		return domain.PasswordStatusOK, fmt.Errorf("load password policy: %w", err)
	}
	if expiry.Before(now.Add(PasswordWarningFrom(props))) {
		return domain.PasswordStatusAboutToExpire, nil
	}

	return domain.PasswordStatusOK, nil
}
