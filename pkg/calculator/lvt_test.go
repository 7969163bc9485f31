package calculator

import (
	"testing"
	"time"

	"client-insights/pkg/models"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func val(v float64) *float64 { return &v }

func interaction(id uint64, typ models.InteractionType, daysAgo int, value float64) models.Interaction {
	return models.Interaction{
		ID:       id,
		ClientID: "c1",
		Type:     typ,
		Date:     now.AddDate(0, 0, -daysAgo),
		Value:    val(value),
	}
}

func TestDaysSince_Ceiling(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{time.Hour, 1},
		{24 * time.Hour, 1},
		{25 * time.Hour, 2},
		{-25 * time.Hour, 2}, // date future : valeur absolue
	}
	for _, c := range cases {
		if got := DaysSince(now, now.Add(-c.elapsed)); got != c.want {
			t.Fatalf("DaysSince(%v) = %d, want %d", c.elapsed, got, c.want)
		}
	}
}

func TestVisitFrequencyDays_AppointmentsOnly(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypeAppointment, 40, 30),
		interaction(2, models.TypePurchase, 35, 20),
		interaction(3, models.TypeMessage, 25, 0),
		interaction(4, models.TypeAppointment, 20, 30),
		interaction(5, models.TypeSiteVisit, 5, 0),
		interaction(6, models.TypeCourse, 1, 100),
	}
	if got := VisitFrequencyDays(in); got != 20 {
		t.Fatalf("got %d, want 20", got)
	}
}

func TestVisitFrequencyDays_InsufficientData(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypeAppointment, 10, 30),
		interaction(2, models.TypePurchase, 5, 20),
	}
	if got := VisitFrequencyDays(in); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestVisitFrequencyDays_UnsortedInput(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypeAppointment, 10, 0),
		interaction(2, models.TypeAppointment, 31, 0),
		interaction(3, models.TypeAppointment, 21, 0),
	}
	// écarts 10 et 11 → moyenne 10.5 → 11
	if got := VisitFrequencyDays(in); got != 11 {
		t.Fatalf("got %d, want 11", got)
	}
}

func TestAge_BirthdayRule(t *testing.T) {
	before := time.Date(2000, 10, 19, 0, 0, 0, 0, time.UTC)
	same := time.Date(2000, 10, 18, 0, 0, 0, 0, time.UTC)
	if a := Age(now, &before); a == nil || *a != 25 {
		t.Fatalf("birthday tomorrow: got %v, want 25", a)
	}
	if a := Age(now, &same); a == nil || *a != 26 {
		t.Fatalf("birthday today: got %v, want 26", a)
	}
	if a := Age(now, nil); a != nil {
		t.Fatalf("unknown birth date: got %d, want nil", *a)
	}
}

func TestComputeFacts_LastVisitFallsBackToAnyInteraction(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypePurchase, 120, 50),
		interaction(2, models.TypeMessage, 100, 0),
	}
	f := ComputeFacts(now, &models.ClientProfile{ID: "c1"}, in)
	if f.VisitCount != 0 || f.DaysSinceLastVisit != 100 || f.DaysSinceLastInteraction != 100 {
		t.Fatalf("unexpected facts: %+v", f)
	}
}

func TestEstimateChurnRisk(t *testing.T) {
	cases := []struct {
		name  string
		facts models.DerivedFacts
		want  models.ChurnRisk
	}{
		{"no interactions", models.DerivedFacts{}, models.ChurnHigh},
		{"single interaction", models.DerivedFacts{InteractionCount: 1}, models.ChurnMedium},
		{"no cadence", models.DerivedFacts{InteractionCount: 3}, models.ChurnLow},
		{"over 2x", models.DerivedFacts{InteractionCount: 5, VisitFrequencyDays: 7, DaysSinceLastInteraction: 15}, models.ChurnHigh},
		{"over 1.5x", models.DerivedFacts{InteractionCount: 5, VisitFrequencyDays: 7, DaysSinceLastInteraction: 11}, models.ChurnMedium},
		{"exactly 2x", models.DerivedFacts{InteractionCount: 5, VisitFrequencyDays: 7, DaysSinceLastInteraction: 14}, models.ChurnMedium},
		{"on rhythm", models.DerivedFacts{InteractionCount: 5, VisitFrequencyDays: 60, DaysSinceLastInteraction: 14}, models.ChurnLow},
	}
	for _, c := range cases {
		if got := EstimateChurnRisk(c.facts); got != c.want {
			t.Fatalf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestEstimateLifetimeValue(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypeAppointment, 60, 100),
		interaction(2, models.TypePurchase, 30, 50),
	}
	// 150 sur 2 mois → 75/mois → 1800 sur 24 mois
	if got := EstimateLifetimeValue(now, in); got != 1800 {
		t.Fatalf("got %v, want 1800", got)
	}
}

func TestEstimateLifetimeValue_SameInstant(t *testing.T) {
	in := []models.Interaction{interaction(1, models.TypePurchase, 0, 80)}
	if got := EstimateLifetimeValue(now, in); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestEstimateLifetimeValue_NeverNegative(t *testing.T) {
	in := []models.Interaction{
		interaction(1, models.TypePurchase, 40, 30),
		interaction(2, models.TypePurchase, 20, -90), // remboursement
	}
	if got := EstimateLifetimeValue(now, in); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := EstimateLifetimeValue(now, nil); got != 0 {
		t.Fatalf("empty history: got %v, want 0", got)
	}
}

func TestEstimateLifetimeValue_PartialDayCountsAsOneDay(t *testing.T) {
	it := interaction(1, models.TypePurchase, 0, 80)
	it.Date = now.Add(-time.Hour)
	// 1 jour → 1/30 de mois → 80 × 30 × 24
	if got := EstimateLifetimeValue(now, []models.Interaction{it}); got != 57600 {
		t.Fatalf("got %v, want 57600", got)
	}
}
