package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/match"
	"github.com/aretw0/orderdesk/pkg/ports"
)

const (
	searchLimit        = 5
	maxSuggestions     = 3
	maxListedOnMiss    = 5
	maxListedOnNoQuery = 8

	msgUnavailable = "I'm having trouble accessing our inventory system right now. Please try again in a moment."
)

// Specialist answers inventory questions from the catalog.
type Specialist struct {
	store  ports.Inventory
	logger *slog.Logger
}

// Option configures the Specialist.
type Option func(*Specialist)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Specialist) {
		s.logger = logger
	}
}

// New creates a Specialist reading from store.
func New(store ports.Inventory, opts ...Option) *Specialist {
	s := &Specialist{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer responds to a free-text catalog question.
func (s *Specialist) Answer(ctx context.Context, utterance string) domain.Result {
	term := CleanQuery(utterance)
	if term == "" {
		return s.noQuery(ctx)
	}

	kind := DetectQueryType(utterance)
	vehicles, err := s.store.SearchVehicles(ctx, term, searchLimit)
	if err != nil {
		return s.fail("search vehicles", err)
	}
	if len(vehicles) == 0 {
		return s.noResults(ctx, utterance, term)
	}

	s.logger.Debug("Answered inventory question", "term", term, "query_type", kind, "matches", len(vehicles))
	return describe(vehicles[0], kind, len(vehicles) > 1)
}

// Details describes one model by exact (case-insensitive) name.
func (s *Specialist) Details(ctx context.Context, model string) domain.Result {
	v, err := s.store.FindVehicle(ctx, model)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		return domain.Result{Status: domain.StatusNotFound, Message: fmt.Sprintf("Vehicle '%s' not found in inventory.", model)}
	}
	if err != nil {
		return s.fail("find vehicle", err)
	}
	return describe(*v, QueryGeneral, false)
}

// Availability is a short in-stock check for one model.
func (s *Specialist) Availability(ctx context.Context, model string) domain.Result {
	v, err := s.store.FindVehicle(ctx, model)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		return domain.Result{Status: domain.StatusNotFound, Message: fmt.Sprintf("'%s' not found in our inventory.", model)}
	}
	if err != nil {
		return s.fail("find vehicle", err)
	}

	label := "Out of stock"
	if v.InStock() {
		label = "Available"
	}
	stock := v.Stock
	return domain.Result{
		Status:  domain.StatusFound,
		Message: fmt.Sprintf("%s: %s", label, v.Model),
		Model:   v.Model,
		Stock:   &stock,
	}
}

func (s *Specialist) noQuery(ctx context.Context) domain.Result {
	models, err := s.store.ListAvailableModels(ctx)
	if err != nil {
		s.logger.Warn("Listing models failed", "err", err)
		return domain.Result{Status: domain.StatusNoQuery, Message: "What vehicle are you looking for? Please specify a model."}
	}
	models = models[:min(len(models), maxListedOnNoQuery)]

	msg := "What vehicle are you looking for?"
	if len(models) > 0 {
		msg += " Available models include: " + strings.Join(models, ", ") + "."
	}
	return domain.Result{Status: domain.StatusNoQuery, Message: msg, AvailableModels: models}
}

func (s *Specialist) noResults(ctx context.Context, utterance, term string) domain.Result {
	msg := fmt.Sprintf("I couldn't find '%s' in our inventory.", strings.TrimSpace(utterance))

	models, err := s.store.ListAvailableModels(ctx)
	if err != nil {
		s.logger.Warn("Listing models failed", "err", err)
		return domain.Result{Status: domain.StatusNotFound, Message: msg + " Please try a different model name."}
	}

	suggestions := suggest(term, models)
	switch {
	case len(suggestions) > 0:
		msg += " Did you mean: " + strings.Join(suggestions, ", ") + "?"
	case len(models) > 0:
		msg += " Available models include: " + strings.Join(models[:min(len(models), maxListedOnMiss)], ", ") + "."
	}
	return domain.Result{
		Status:          domain.StatusNotFound,
		Message:         msg,
		Suggestions:     suggestions,
		AvailableModels: models,
	}
}

// suggest returns up to three models resembling term, in catalog casing.
func suggest(term string, models []string) []string {
	lowered := make([]string, len(models))
	for i, m := range models {
		lowered[i] = strings.ToLower(m)
	}
	var out []string
	for _, hit := range match.CloseMatches(term, lowered, maxSuggestions, match.SuggestionCutoff) {
		for i, l := range lowered {
			if l == hit {
				out = append(out, models[i])
				break
			}
		}
	}
	return out
}

func (s *Specialist) fail(op string, err error) domain.Result {
	s.logger.Error("Inventory lookup failed", "op", op, "err", err)
	return domain.Result{Status: domain.StatusError, Message: msgUnavailable}
}
