package calculator

import (
	"client-insights/pkg/models"
)

// EstimateChurnRisk compare la récence du dernier contact (tous types) au rythme propre du client.
//
//	aucune interaction           → high
//	fréquence inconnue (0)       → medium si une seule interaction, sinon low
//	> 2× fréquence               → high
//	> 1.5× fréquence             → medium
//	sinon                        → low
func EstimateChurnRisk(facts models.DerivedFacts) models.ChurnRisk {
	if facts.InteractionCount == 0 {
		return models.ChurnHigh
	}
	if facts.VisitFrequencyDays == 0 {
		if facts.InteractionCount == 1 {
			return models.ChurnMedium
		}
		return models.ChurnLow
	}
	since := float64(facts.DaysSinceLastInteraction)
	freq := float64(facts.VisitFrequencyDays)
	switch {
	case since > 2*freq:
		return models.ChurnHigh
	case since > 1.5*freq:
		return models.ChurnMedium
	default:
		return models.ChurnLow
	}
}
