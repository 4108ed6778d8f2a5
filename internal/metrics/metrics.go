// Package metrics exposes Prometheus counters for authentication and
// recipe activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	authEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_auth_events_total",
			Help: "Total number of registration, login and token checks by outcome",
		},
		[]string{"event", "outcome"},
	)

	recipeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_recipe_operations_total",
			Help: "Total number of recipe operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ObserveAuth records an authentication event such as "register" or "login".
func ObserveAuth(event string, err error) {
	authEvents.WithLabelValues(event, outcome(err)).Inc()
}

// ObserveRecipe records a recipe service operation.
func ObserveRecipe(operation string, err error) {
	recipeOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
