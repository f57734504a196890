package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/intent"
	"github.com/aretw0/orderdesk/pkg/ports"
)

// Default stock retry policy: three attempts, exponential from 100ms.
const (
	DefaultStockAttempts = 3
	DefaultStockBase     = 100 * time.Millisecond
)

// Desk handles customer utterances against a durable store.
type Desk struct {
	store    ports.DurableStore
	logger   *slog.Logger
	observer Observer
	now      func() time.Time

	stockAttempts uint64
	stockBase     time.Duration
}

// Option configures the Desk.
type Option func(*Desk)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desk) {
		d.logger = logger
	}
}

// WithObserver registers an Observer (e.g. observability.Metrics).
func WithObserver(o Observer) Option {
	return func(d *Desk) {
		d.observer = o
	}
}

// WithStockRetry sets how many times a stock adjustment is attempted and the base of
// the exponential backoff between attempts.
func WithStockRetry(attempts uint64, base time.Duration) Option {
	return func(d *Desk) {
		d.stockAttempts = attempts
		d.stockBase = base
	}
}

// WithClock overrides the time source used to measure handling latency.
func WithClock(now func() time.Time) Option {
	return func(d *Desk) {
		d.now = now
	}
}

// New creates a Desk backed by store.
func New(store ports.DurableStore, opts ...Option) *Desk {
	d := &Desk{
		store:         store,
		logger:        logging.NewNop(),
		observer:      NopObserver{},
		now:           time.Now,
		stockAttempts: DefaultStockAttempts,
		stockBase:     DefaultStockBase,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.stockAttempts == 0 {
		d.stockAttempts = 1
	}
	if d.stockBase <= 0 {
		d.stockBase = DefaultStockBase
	}
	return d
}

// Store returns the durable store the desk talks to.
func (d *Desk) Store() ports.DurableStore {
	return d.store
}

// Handle classifies utterance and runs the matching branch, mutating session in place.
// sessionID keys the durable orders; it defaults to session.ID. userName is recorded on
// new orders and defaults to session.UserName, then domain.DefaultUserName.
//
// Handle never returns an error: failures of the durable store surface as a Result with
// domain.StatusError and a reset session.
func (d *Desk) Handle(ctx context.Context, utterance string, session *domain.Session, sessionID, userName string) (res domain.Result) {
	if session == nil {
		d.logger.Error("handle called without a session", "session_id", sessionID)
		return domain.Result{Status: domain.StatusError, Message: msgTryAgain}
	}
	if sessionID == "" {
		sessionID = session.ID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		session.ID = sessionID
	}
	userName = firstNonEmpty(userName, session.UserName, domain.DefaultUserName)

	start := d.now()
	defer func() {
		if r := recover(); r != nil {
			res = d.fail(session, sessionID, "handle", fmt.Errorf("panic: %v", r))
		}
		d.enforceInvariant(session, sessionID)
		d.observer.OnResult(ctx, sessionID, res, d.now().Sub(start))
	}()

	text, err := SanitizeInput(utterance)
	if err != nil {
		d.logger.Warn("Rejected utterance", "session_id", sessionID, "err", err)
		return domain.Result{Status: domain.StatusUnclear, Message: msgUnclear, Intent: domain.IntentUnclear}
	}

	known, err := d.store.ListAvailableModels(ctx)
	if err != nil {
		return d.fail(session, sessionID, "list models", err)
	}

	in := intent.Classify(text, session, known)
	d.logger.Debug("Classified utterance", "session_id", sessionID, "intent", in)
	d.observer.OnIntent(ctx, sessionID, in)

	res = d.dispatch(ctx, in, text, session, sessionID, userName, known)
	res.Intent = in
	return res
}

func (d *Desk) dispatch(ctx context.Context, in domain.Intent, text string, session *domain.Session, sessionID, userName string, known []string) domain.Result {
	switch in {
	case domain.IntentConfirmPendingOrder:
		return d.confirm(ctx, session, sessionID, userName)
	case domain.IntentConversationClose:
		return d.close(session, sessionID)
	case domain.IntentOrderStatus:
		return d.Status(ctx, session, sessionID)
	case domain.IntentCancellation:
		return d.cancel(ctx, text, session, sessionID, known)
	case domain.IntentNewOrder:
		return d.propose(ctx, text, session, sessionID, known)
	case domain.IntentGenericYesOnPending:
		return d.remindPhrase(session)
	default:
		return domain.Result{Status: domain.StatusUnclear, Message: msgUnclear}
	}
}

// fail handles a collaborator failure: every transient sub-state is dropped so the
// conversation cannot get stuck, and a generic message is returned.
func (d *Desk) fail(session *domain.Session, sessionID, op string, err error) domain.Result {
	d.logger.Error("Order desk operation failed", "session_id", sessionID, "op", op, "err", err)
	session.Reset()
	return domain.Result{Status: domain.StatusError, Message: msgTryAgain}
}

func (d *Desk) enforceInvariant(session *domain.Session, sessionID string) {
	if err := session.Validate(); err != nil {
		d.logger.Error("Repairing inconsistent session", "session_id", sessionID, "err", err)
		session.ClearPending()
	}
}

func (d *Desk) close(session *domain.Session, sessionID string) domain.Result {
	session.Reset()
	d.logger.Info("Conversation closed", "session_id", sessionID)
	return domain.Result{Status: domain.StatusConversationComplete, Message: msgGoodbye}
}

func (d *Desk) remindPhrase(session *domain.Session) domain.Result {
	p := session.PendingOrder
	return domain.Result{
		Status:  domain.StatusClarificationNeeded,
		Message: phraseReminder(p.Model, session.ConfirmationPhrase),
		Model:   p.Model,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
