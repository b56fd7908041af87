package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type signalService struct {
	signals  repository.SignalRepo
	observer UseCaseObserver
}

func NewSignalService(signals repository.SignalRepo, observers ...UseCaseObserver) SignalService {
	return &signalService{signals: signals, observer: useCaseObserverOrNoop(observers)}
}

// Ingest validates and appends one signal as given. Concepts are stored as
// supplied; Interest and related-concept matching only see what the source
// tagged.
func (s *signalService) Ingest(ctx context.Context, sig *domain.ActivitySignal) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": sig.UserID, "kind": string(sig.Kind)}
	defer observe(ctx, s.observer, "ingest-signal", startedAt, fields, &err)

	if err := sig.Validate(); err != nil {
		return invalidInput(app.StageValidate, sig.Label(), "signal rejected", err)
	}
	if sig.ID == "" {
		sig.ID = uuid.New().String()
	}
	sig.ObservedAt = sig.ObservedAt.UTC()
	fields["concepts"] = len(sig.Concepts)
	return s.signals.Append(ctx, sig)
}
