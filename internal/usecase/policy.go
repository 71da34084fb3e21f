package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/FocusFish/USM/internal/core/port"
)

// PolicyProvider serves policy property bags with a per-subject cache in
// front of the policy repository. Invalidation is clear-all; policies change
// rarely and a full reload is cheap.
type PolicyProvider struct {
	policies port.PolicyRepository

	mu    sync.RWMutex
	cache map[string]map[string]string
}

// NewPolicyProvider constructs a provider backed by the given repository.
func NewPolicyProvider(policies port.PolicyRepository) *PolicyProvider {
	return &PolicyProvider{
		policies: policies,
		cache:    make(map[string]map[string]string),
	}
}

// GetProperties returns the property bag for a subject, loading and caching
// it on first use. Unknown subjects yield an empty bag.
func (p *PolicyProvider) GetProperties(ctx context.Context, subject string) (map[string]string, error) {
	p.mu.RLock()
	props, ok := p.cache[subject]
	p.mu.RUnlock()
	if ok {
		return props, nil
	}

	policy, err := p.policies.GetBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("load policy %s: %w", subject, err)
	}

	props = policy.Properties
	if props == nil {
		props = make(map[string]string)
	}

	p.mu.Lock()
	p.cache[subject] = props
	p.mu.Unlock()

	return props, nil
}

// Reset drops every cached subject. The next read reloads from storage.
func (p *PolicyProvider) Reset() {
	p.mu.Lock()
	p.cache = make(map[string]map[string]string)
	p.mu.Unlock()
}

// IntProperty parses a numeric property, falling back when the key is
// missing or malformed.
func IntProperty(props map[string]string, key string, fallback int) int {
	raw, ok := props[key]
	if !ok {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
