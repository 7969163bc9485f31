package calculator

import (
	"math"
	"sort"
	"time"

	"client-insights/pkg/models"
)

const day = 24 * time.Hour

// DaysSince : nombre de jours écoulés entre t et now, arrondi au supérieur.
// Même jour → 0 ; une fraction de jour compte pour un jour entier.
func DaysSince(now, t time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// appointments renvoie les rendez-vous triés par date croissante (tri stable).
func appointments(interactions []models.Interaction) []models.Interaction {
	out := make([]models.Interaction, 0, len(interactions))
	for _, it := range interactions {
		if it.Type == models.TypeAppointment {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// VisitFrequencyDays : moyenne arrondie des écarts (en jours) entre rendez-vous consécutifs.
// Seuls les rendez-vous comptent. Moins de 2 rendez-vous → 0 (données insuffisantes).
func VisitFrequencyDays(interactions []models.Interaction) int {
	apps := appointments(interactions)
	if len(apps) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(apps); i++ {
		total += float64(apps[i].Date.Sub(apps[i-1].Date)) / float64(day)
	}
	return int(math.Round(total / float64(len(apps)-1)))
}

// Age : années révolues à la date now. nil si la date de naissance est inconnue.
func Age(now time.Time, birthDate *time.Time) *int {
	if birthDate == nil {
		return nil
	}
	b := *birthDate
	years := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	return &years
}

func totalSpent(interactions []models.Interaction) float64 {
	sum := 0.0
	for _, it := range interactions {
		sum += it.Amount()
	}
	return sum
}

// latest renvoie l'interaction la plus récente ; ok=false si la liste est vide.
func latest(interactions []models.Interaction) (models.Interaction, bool) {
	if len(interactions) == 0 {
		return models.Interaction{}, false
	}
	last := interactions[0]
	for _, it := range interactions[1:] {
		if it.Date.After(last.Date) {
			last = it
		}
	}
	return last, true
}

// earliest : date de la première interaction (tous types).
func earliest(interactions []models.Interaction) (time.Time, bool) {
	if len(interactions) == 0 {
		return time.Time{}, false
	}
	first := interactions[0].Date
	for _, it := range interactions[1:] {
		if it.Date.Before(first) {
			first = it.Date
		}
	}
	return first, true
}

// lastVisitDate : dernier rendez-vous, ou à défaut dernière interaction de tout type.
func lastVisitDate(interactions []models.Interaction) (time.Time, bool) {
	if apps := appointments(interactions); len(apps) > 0 {
		return apps[len(apps)-1].Date, true
	}
	last, ok := latest(interactions)
	return last.Date, ok
}

// ComputeFacts dérive les faits scalaires d'un client. Fonction pure.
func ComputeFacts(now time.Time, profile *models.ClientProfile, interactions []models.Interaction) models.DerivedFacts {
	f := models.DerivedFacts{
		InteractionCount:   len(interactions),
		VisitCount:         len(appointments(interactions)),
		TotalSpent:         totalSpent(interactions),
		VisitFrequencyDays: VisitFrequencyDays(interactions),
	}
	if profile != nil {
		f.Age = Age(now, profile.BirthDate)
	}
	if last, ok := latest(interactions); ok {
		f.DaysSinceLastInteraction = DaysSince(now, last.Date)
	}
	if lv, ok := lastVisitDate(interactions); ok {
		f.DaysSinceLastVisit = DaysSince(now, lv)
	}
	return f
}
