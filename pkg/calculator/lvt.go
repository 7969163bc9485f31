package calculator

import (
	"math"
	"time"

	"client-insights/pkg/models"
)

// ltvHorizonMonths : horizon de projection de la LTV.
const ltvHorizonMonths = 24

// EstimateLifetimeValue projette linéairement la dépense mensuelle observée sur 24 mois.
// Projection volontairement naïve (pas d'actualisation ni de probabilité de rétention).
// Historique nul (aucun temps écoulé) → 0. Jamais négatif.
func EstimateLifetimeValue(now time.Time, interactions []models.Interaction) float64 {
	first, ok := earliest(interactions)
	if !ok {
		return 0
	}
	months := float64(DaysSince(now, first)) / 30
	if months <= 0 {
		return 0
	}
	ltv := math.Round(totalSpent(interactions) / months * ltvHorizonMonths)
	if ltv <= 0 {
		return 0
	}
	return ltv
}
