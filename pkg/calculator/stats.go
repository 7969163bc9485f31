package calculator

import (
	"client-insights/pkg/models"
)

const (
	activeWithinDays   = 60
	inactiveAfterDays  = 90
	smallSampleMaxSize = 10
)

// ComputeStatistics agrège les insights. Toujours calculé sur les données réelles, sauf si
// cfg.SmallSampleBaseline est activé et qu'il y a 10 insights ou moins : on renvoie alors
// le jeu d'illustration, marqué Baseline.
func ComputeStatistics(cfg models.Config, insights []models.ClientInsight) models.PortfolioStatistics {
	if cfg.SmallSampleBaseline && len(insights) <= smallSampleMaxSize {
		return SmallSampleBaseline()
	}

	st := models.PortfolioStatistics{
		TotalClients:        len(insights),
		SegmentDistribution: map[string]int{},
	}
	spent := 0.0
	freqSum, freqN := 0, 0
	for _, in := range insights {
		if in.LastVisit != nil {
			switch d := DaysSince(cfg.Observation, *in.LastVisit); {
			case d < activeWithinDays:
				st.ActiveClients++
			case d >= inactiveAfterDays:
				st.InactiveClients++
			}
		}
		if in.ChurnRisk == models.ChurnHigh {
			st.AtRiskClients++
		}
		spent += in.TotalSpent
		if in.VisitFrequency > 0 {
			freqSum += in.VisitFrequency
			freqN++
		}
		for _, s := range in.Segments {
			st.SegmentDistribution[s]++
		}
	}
	if len(insights) > 0 {
		st.AverageValue = spent / float64(len(insights))
	}
	if freqN > 0 {
		st.AverageFrequency = float64(freqSum) / float64(freqN)
	}
	return st
}

// SmallSampleBaseline : statistiques d'illustration pour les petites populations (démo).
func SmallSampleBaseline() models.PortfolioStatistics {
	return models.PortfolioStatistics{
		TotalClients:     150,
		ActiveClients:    98,
		InactiveClients:  22,
		AtRiskClients:    18,
		AverageValue:     185.5,
		AverageFrequency: 28,
		SegmentDistribution: map[string]int{
			SegmentLoyal:            45,
			SegmentHighValue:        32,
			SegmentAtRisk:           18,
			SegmentInactive:         22,
			SegmentNew:              28,
			SegmentYoungAdult:       35,
			SegmentUpgradeCandidate: 24,
		},
		Baseline: true,
	}
}
