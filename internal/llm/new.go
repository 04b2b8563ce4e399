package llm

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

type implInvoker struct {
	backend    Backend
	policy     Policy
	validator  Validator
	logger     logger.Logger
	newBackOff func() backoff.BackOff
}

// Option configures an Invoker
type Option func(*implInvoker)

// WithValidator installs a response check run after the empty-text check
func WithValidator(v Validator) Option {
	return func(i *implInvoker) {
		i.validator = v
	}
}

// NewInvoker creates an Invoker around backend. Zero policy fields fall
// back to DefaultPolicy.
func NewInvoker(backend Backend, policy Policy, log logger.Logger, opts ...Option) Invoker {
	def := DefaultPolicy()
	if policy.Model == "" {
		policy.Model = def.Model
	}
	if policy.MaxTokens <= 0 {
		policy.MaxTokens = def.MaxTokens
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = def.BaseDelay
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}

	i := &implInvoker{
		backend: backend,
		policy:  policy,
		logger:  log,
	}
	i.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = i.policy.BaseDelay
		b.MaxInterval = i.policy.MaxDelay
		b.MaxElapsedTime = 0
		return b
	}

	for _, opt := range opts {
		opt(i)
	}
	return i
}
