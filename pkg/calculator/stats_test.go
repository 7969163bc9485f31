package calculator

import (
	"testing"
	"time"

	"client-insights/pkg/models"
)

func insightAt(daysAgo int, freq int, spent float64, risk models.ChurnRisk, segments ...string) models.ClientInsight {
	lv := now.AddDate(0, 0, -daysAgo)
	return models.ClientInsight{
		LastVisit:      &lv,
		VisitFrequency: freq,
		TotalSpent:     spent,
		ChurnRisk:      risk,
		Segments:       segments,
	}
}

func TestComputeStatistics_RealData(t *testing.T) {
	insights := []models.ClientInsight{
		insightAt(10, 30, 300, models.ChurnLow, SegmentLoyal, SegmentHighValue),
		insightAt(70, 20, 100, models.ChurnHigh, SegmentAtRisk),
		insightAt(120, 0, 50, models.ChurnHigh, SegmentInactive, SegmentNew),
		{Segments: []string{SegmentNew}, ChurnRisk: models.ChurnMedium},
	}
	st := ComputeStatistics(cfg, insights)
	if st.Baseline {
		t.Fatal("baseline must stay off by default")
	}
	if st.TotalClients != 4 || st.ActiveClients != 1 || st.InactiveClients != 1 || st.AtRiskClients != 2 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if st.AverageValue != 112.5 {
		t.Fatalf("average value: got %v, want 112.5", st.AverageValue)
	}
	if st.AverageFrequency != 25 {
		t.Fatalf("average frequency: got %v, want 25", st.AverageFrequency)
	}
	if st.SegmentDistribution[SegmentNew] != 2 || st.SegmentDistribution[SegmentLoyal] != 1 {
		t.Fatalf("distribution: got %v", st.SegmentDistribution)
	}
}

func TestComputeStatistics_SmallSampleBaselineOptIn(t *testing.T) {
	c := cfg
	c.SmallSampleBaseline = true
	insights := []models.ClientInsight{insightAt(10, 30, 300, models.ChurnLow, SegmentLoyal)}
	if st := ComputeStatistics(c, insights); !st.Baseline || st.TotalClients != 150 {
		t.Fatalf("expected baseline statistics, got %+v", st)
	}

	for i := 0; i < 10; i++ {
		insights = append(insights, insightAt(10, 30, 100, models.ChurnLow))
	}
	if st := ComputeStatistics(c, insights); st.Baseline || st.TotalClients != 11 {
		t.Fatalf("11 insights should use real data, got %+v", st)
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	st := ComputeStatistics(cfg, nil)
	if st.TotalClients != 0 || st.AverageValue != 0 || st.AverageFrequency != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestRecommendations(t *testing.T) {
	birth := time.Date(1990, 10, 28, 0, 0, 0, 0, time.UTC)
	p := &models.ClientProfile{ID: "c1", BirthDate: &birth}
	in := models.ClientInsight{
		VisitCount:        6,
		PreferredServices: []models.Preference{{Name: "Haircut", Count: 4}, {Name: "Beard", Count: 2}},
		ChurnRisk:         models.ChurnHigh,
	}
	got := Recommendations(cfg, in, p)
	want := []string{
		"Pre-book their favourite service: Haircut.",
		"Suggest a combo of Haircut and Beard.",
		"Invite them to the loyalty programme.",
		"Introduce the grooming products used during their service.",
		"Send a personal message to bring them back.",
		"Birthday in 10 days: send a birthday offer.",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("#%d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecommendations_Fallback(t *testing.T) {
	in := models.ClientInsight{
		VisitCount:        3,
		PreferredServices: []models.Preference{{Name: "Haircut", Count: 3}},
		PurchaseHistory:   models.PurchaseHistory{Count: 2},
	}
	got := Recommendations(cfg, in, nil)
	if len(got) != 1 || got[0] != "Pre-book their favourite service: Haircut." {
		t.Fatalf("got %v", got)
	}
	if got := Recommendations(cfg, models.ClientInsight{PurchaseHistory: models.PurchaseHistory{Count: 1}}, nil); got[len(got)-1] != "Offer a discount on their next visit." {
		t.Fatalf("got %v", got)
	}
}

func TestRecommendations_UnlabelledAppointmentsCountAsVisits(t *testing.T) {
	var in []models.Interaction
	for i := 0; i < 6; i++ {
		in = append(in, interaction(uint64(i+1), models.TypeAppointment, 150-i*28, 40))
	}
	insight, err := NewEngine(nil, nil).ComputeInsight(cfg, "c1", in, profile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insight.VisitCount != 6 || len(insight.PreferredServices) != 0 {
		t.Fatalf("got visits=%d services=%v", insight.VisitCount, insight.PreferredServices)
	}
	if !contains(insight.Segments, SegmentLoyal) {
		t.Fatalf("segments %v should include Loyal", insight.Segments)
	}
	got := Recommendations(cfg, insight, nil)
	want := []string{
		"Invite them to the loyalty programme.",
		"Introduce the grooming products used during their service.",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("#%d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDaysUntilBirthday_WrapsYear(t *testing.T) {
	birth := time.Date(1995, 10, 1, 0, 0, 0, 0, time.UTC)
	if d := daysUntilBirthday(now, birth); d != 348 {
		t.Fatalf("got %d, want 348", d)
	}
}
