package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
	"github.com/FocusFish/USM/internal/repository"
)

type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.UserAccount
}

func newFakeAccountRepository(accounts ...*domain.UserAccount) *fakeAccountRepository {
	repo := &fakeAccountRepository{accounts: make(map[string]*domain.UserAccount)}
	for _, account := range accounts {
		copied := *account
		repo.accounts[account.UserName] = &copied
	}
	return repo
}

func (r *fakeAccountRepository) get(userName string) (*domain.UserAccount, error) {
	account, ok := r.accounts[userName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepository) GetByUserName(_ context.Context, userName string) (*domain.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(userName)
}

func (r *fakeAccountRepository) GetByUserNameForUpdate(_ context.Context, userName string) (*domain.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(userName)
}

func (r *fakeAccountRepository) RecordLoginSuccess(_ context.Context, userName string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userName]
	if !ok {
		return repository.ErrNotFound
	}

	stamped := at
	account.LastLogon = &stamped
	account.LogonFailures = 0
	account.LockoutReason = nil
	account.LockoutExpiry = nil
	return nil
}

func (r *fakeAccountRepository) RecordLoginFailure(_ context.Context, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userName]
	if !ok {
		return repository.ErrNotFound
	}

	account.LogonFailures++
	return nil
}

func (r *fakeAccountRepository) Lock(_ context.Context, userName, reason string, lockoutExpiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userName]
	if !ok || account.Status != domain.AccountStatusEnabled {
		return nil
	}

	expiry := lockoutExpiry
	account.Status = domain.AccountStatusLocked
	account.LockoutReason = &reason
	account.LockoutExpiry = &expiry
	return nil
}

func (r *fakeAccountRepository) Unlock(_ context.Context, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userName]
	if !ok || account.Status != domain.AccountStatusLocked {
		return nil
	}

	account.Status = domain.AccountStatusEnabled
	account.LogonFailures = 0
	account.LockoutReason = nil
	account.LockoutExpiry = nil
	return nil
}

func (r *fakeAccountRepository) GetPasswordExpiry(_ context.Context, userName string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return account.PasswordExpiry, nil
}

var _ port.AccountRepository = (*fakeAccountRepository)(nil)

type fakeTxRunner struct {
	accounts *fakeAccountRepository
}

func (r *fakeTxRunner) WithAccountLock(ctx context.Context, fn func(ctx context.Context, accounts port.AccountRepository) error) error {
	return fn(ctx, r.accounts)
}

var _ port.AccountTxRunner = (*fakeTxRunner)(nil)

type fakePolicyRepository struct {
	mu       sync.Mutex
	policies map[string]map[string]string
	loads    int
}

func newFakePolicyRepository() *fakePolicyRepository {
	return &fakePolicyRepository{policies: make(map[string]map[string]string)}
}

func (r *fakePolicyRepository) set(subject string, props map[string]string) {
	r.mu.Lock()
	r.policies[subject] = props
	r.mu.Unlock()
}

func (r *fakePolicyRepository) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

func (r *fakePolicyRepository) GetBySubject(_ context.Context, subject string) (domain.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loads++

	props := make(map[string]string)
	for key, value := range r.policies[subject] {
		props[key] = value
	}
	return domain.Policy{Subject: subject, Properties: props}, nil
}

var _ port.PolicyRepository = (*fakePolicyRepository)(nil)

type fakeChallengeRepository struct {
	stored []domain.ChallengeResponse
}

func (r *fakeChallengeRepository) ListByUserName(_ context.Context, userName string) ([]domain.ChallengeResponse, error) {
	matches := make([]domain.ChallengeResponse, 0)
	for _, item := range r.stored {
		if item.UserName == userName {
			matches = append(matches, domain.ChallengeResponse{UserName: item.UserName, Challenge: item.Challenge})
		}
	}
	return matches, nil
}

func (r *fakeChallengeRepository) Verify(_ context.Context, request domain.ChallengeResponse) (bool, error) {
	for _, item := range r.stored {
		if item.UserName == request.UserName && item.Challenge == request.Challenge && item.Response == request.Response {
			return true, nil
		}
	}
	return false, nil
}

var _ port.ChallengeRepository = (*fakeChallengeRepository)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	logins []domain.LoginEvent
	sess   []domain.SessionEvent
	admin  []domain.AdministrationEvent
}

func (p *recordingPublisher) PublishLogin(_ context.Context, event domain.LoginEvent) error {
	p.mu.Lock()
	p.logins = append(p.logins, event)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) PublishSession(_ context.Context, event domain.SessionEvent) error {
	p.mu.Lock()
	p.sess = append(p.sess, event)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) PublishAdministration(_ context.Context, event domain.AdministrationEvent) error {
	p.mu.Lock()
	p.admin = append(p.admin, event)
	p.mu.Unlock()
	return nil
}

var _ port.EventPublisher = (*recordingPublisher)(nil)
