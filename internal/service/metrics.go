package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

var useCasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reviewagenda_use_cases_total",
	Help: "Service use cases by name and outcome",
}, []string{"use_case", "outcome"})

// outcomeOf classifies a use-case error for logs and metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidOperation):
		return outcomeInvalid
	case errors.Is(err, repository.ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeError
	}
}

type metricsUseCaseObserver struct{}

// NewMetricsUseCaseObserver counts use cases in reviewagenda_use_cases_total.
func NewMetricsUseCaseObserver() UseCaseObserver {
	return metricsUseCaseObserver{}
}

func (metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	useCasesTotal.WithLabelValues(event.Name, outcomeOf(event.Err)).Inc()
}
