// Package views holds the lifecycle-aware view controllers: each computes,
// from a fresh fetch of backend state, which actions are legal for the
// current viewer. Controllers never mutate local copies optimistically; a
// successful mutation is followed by a refetch.
package views

import (
	"errors"

	"go.uber.org/zap"

	"github.com/aldoetobex/legal-mp-client/internal/cases"
	"github.com/aldoetobex/legal-mp-client/internal/files"
	"github.com/aldoetobex/legal-mp-client/internal/payments"
	"github.com/aldoetobex/legal-mp-client/internal/quotes"
	"github.com/aldoetobex/legal-mp-client/internal/session"
)

// ErrActionInFlight is returned when a mutating action is re-submitted while
// its first submission is still pending.
var ErrActionInFlight = errors.New("action already in flight")

// Navigator abstracts forced navigation (redirects after mutations and the
// global 401 teardown).
type Navigator interface {
	To(path string)
}

// Controllers bundles everything a view needs.
type Controllers struct {
	Session  *session.Store
	Cases    *cases.Service
	Quotes   *quotes.Service
	Payments *payments.Service
	Files    *files.Service

	Processor payments.Processor
	Nav       Navigator
	Log       *zap.Logger

	flight *inflight
}

// New wires the controller set.
func New(
	sess *session.Store,
	cs *cases.Service,
	qs *quotes.Service,
	ps *payments.Service,
	fs *files.Service,
	proc payments.Processor,
	nav Navigator,
	log *zap.Logger,
) *Controllers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controllers{
		Session:   sess,
		Cases:     cs,
		Quotes:    qs,
		Payments:  ps,
		Files:     fs,
		Processor: proc,
		Nav:       nav,
		Log:       log,
		flight:    newInflight(),
	}
}
