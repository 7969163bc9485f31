package calculator

import (
	"fmt"
	"time"

	"client-insights/pkg/models"
)

const birthdayWindowDays = 30

// Recommendations : suggestions textuelles simples tirées des services préférés,
// du nombre de rendez-vous, des achats, du risque et de l'anniversaire du client.
// Le nombre de visites vient de VisitCount : un rendez-vous sans service libellé compte aussi.
func Recommendations(cfg models.Config, in models.ClientInsight, profile *models.ClientProfile) []string {
	var out []string

	visits := in.VisitCount

	if len(in.PreferredServices) > 0 {
		out = append(out, fmt.Sprintf("Pre-book their favourite service: %s.", in.PreferredServices[0].Name))
	}
	if len(in.PreferredServices) >= 2 {
		out = append(out, fmt.Sprintf("Suggest a combo of %s and %s.",
			in.PreferredServices[0].Name, in.PreferredServices[1].Name))
	}
	if len(in.PreferredBarbers) > 0 {
		out = append(out, fmt.Sprintf("Offer a slot with %s, their usual barber.", in.PreferredBarbers[0].Name))
	}
	switch {
	case visits >= 5:
		out = append(out, "Invite them to the loyalty programme.")
	case visits <= 1:
		out = append(out, "Offer a discount on their next visit.")
	}
	if in.PurchaseHistory.Count == 0 && visits > 0 {
		out = append(out, "Introduce the grooming products used during their service.")
	}
	if in.ChurnRisk == models.ChurnHigh {
		out = append(out, "Send a personal message to bring them back.")
	}
	if profile != nil && profile.BirthDate != nil {
		if d := daysUntilBirthday(cfg.Observation, *profile.BirthDate); d <= birthdayWindowDays {
			out = append(out, fmt.Sprintf("Birthday in %d days: send a birthday offer.", d))
		}
	}
	if len(out) == 0 {
		out = append(out, fallbackApproach)
	}
	return out
}

// daysUntilBirthday : jours jusqu'au prochain anniversaire (0 = aujourd'hui).
// Un 29 février tombe le 1er mars les années non bissextiles.
func daysUntilBirthday(now, birth time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(now.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today) / day)
}
