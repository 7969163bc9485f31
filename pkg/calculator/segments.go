package calculator

import (
	"client-insights/pkg/models"
)

// Noms des segments à règle spécifique.
const (
	SegmentLoyal            = "Loyal"
	SegmentHighValue        = "High Value"
	SegmentAtRisk           = "At Risk"
	SegmentInactive         = "Inactive"
	SegmentNew              = "New"
	SegmentYoungAdult       = "Young Adult"
	SegmentUpgradeCandidate = "Upgrade Candidate"
)

// Predicate évalue un segment sur les faits dérivés d'un client.
type Predicate func(models.DerivedFacts) bool

// rule : entrée du registre ordonné (nom, prédicat).
type rule struct {
	name  string
	match Predicate
}

// namedRules : règles vérifiées par nom avant les critères génériques
// (le modèle générique ne sait pas exprimer tous ces ET / intervalles).
var namedRules = map[string]Predicate{
	SegmentLoyal: func(f models.DerivedFacts) bool {
		return f.VisitCount >= 4 && f.DaysSinceLastVisit <= 45
	},
	SegmentHighValue: func(f models.DerivedFacts) bool {
		return f.TotalSpent >= 200
	},
	// [60, 90) : 90 jours pile relève de Inactive.
	SegmentAtRisk: func(f models.DerivedFacts) bool {
		return f.DaysSinceLastVisit >= 60 && f.DaysSinceLastVisit < 90
	},
	SegmentInactive: func(f models.DerivedFacts) bool {
		return f.DaysSinceLastVisit >= 90
	},
	SegmentNew: func(f models.DerivedFacts) bool {
		return f.VisitCount <= 2
	},
	SegmentYoungAdult: func(f models.DerivedFacts) bool {
		return f.Age != nil && *f.Age >= 18 && *f.Age <= 25
	},
	SegmentUpgradeCandidate: func(f models.DerivedFacts) bool {
		return f.VisitCount >= 2 && f.TotalSpent <= 150
	},
}

// CriteriaPredicate construit le prédicat générique : chaque borne définie doit tenir.
func CriteriaPredicate(c models.Criteria) Predicate {
	return func(f models.DerivedFacts) bool {
		if c.MinVisits != nil && f.VisitCount < *c.MinVisits {
			return false
		}
		if c.MaxVisits != nil && f.VisitCount > *c.MaxVisits {
			return false
		}
		if c.MinSpending != nil && f.TotalSpent < *c.MinSpending {
			return false
		}
		if c.MaxSpending != nil && f.TotalSpent > *c.MaxSpending {
			return false
		}
		if c.LastVisitDays != nil && f.DaysSinceLastVisit < *c.LastVisitDays {
			return false
		}
		if c.AgeRange != nil {
			if f.Age == nil || *f.Age < c.AgeRange.Min || *f.Age > c.AgeRange.Max {
				return false
			}
		}
		return true
	}
}

// buildRegistry transforme les définitions en registre ordonné, dans l'ordre des définitions.
func buildRegistry(defs []models.SegmentDefinition) []rule {
	reg := make([]rule, 0, len(defs))
	for _, d := range defs {
		p, ok := namedRules[d.Name]
		if !ok {
			p = CriteriaPredicate(d.Criteria)
		}
		reg = append(reg, rule{name: d.Name, match: p})
	}
	return reg
}

// classify évalue chaque règle indépendamment ; un client peut appartenir à plusieurs segments.
// Sans aucune interaction : ["New"], sans évaluer le reste.
func classify(reg []rule, facts models.DerivedFacts) []string {
	if facts.InteractionCount == 0 {
		return []string{SegmentNew}
	}
	out := []string{}
	for _, r := range reg {
		if r.match(facts) {
			out = append(out, r.name)
		}
	}
	return out
}

// Classify : segments du client, dans l'ordre des définitions (pas par pertinence).
func Classify(facts models.DerivedFacts, defs []models.SegmentDefinition) []string {
	return classify(buildRegistry(defs), facts)
}

// PrimarySegment : le premier segment correspondant sert de clé de stratégie.
// L'ordre des définitions fait donc partie du contrat.
func PrimarySegment(segments []string) string {
	if len(segments) == 0 {
		return SegmentNew
	}
	return segments[0]
}

// DefaultSegments : définitions par défaut, dans l'ordre d'évaluation.
func DefaultSegments() []models.SegmentDefinition {
	ip := func(n int) *int { return &n }
	fp := func(v float64) *float64 { return &v }
	return []models.SegmentDefinition{
		{ID: "loyal", Name: SegmentLoyal, Description: "Visits regularly: 4+ appointments, last one within 45 days", Tag: "green",
			Criteria: models.Criteria{MinVisits: ip(4)}},
		{ID: "high-value", Name: SegmentHighValue, Description: "Total spending of 200 or more", Tag: "gold",
			Criteria: models.Criteria{MinSpending: fp(200)}},
		{ID: "at-risk", Name: SegmentAtRisk, Description: "Last visit 60 to 89 days ago", Tag: "orange",
			Criteria: models.Criteria{LastVisitDays: ip(60)}},
		{ID: "inactive", Name: SegmentInactive, Description: "No visit for 90 days or more", Tag: "red",
			Criteria: models.Criteria{LastVisitDays: ip(90)}},
		{ID: "new", Name: SegmentNew, Description: "Two visits or fewer", Tag: "blue",
			Criteria: models.Criteria{MaxVisits: ip(2)}},
		{ID: "young-adult", Name: SegmentYoungAdult, Description: "Client aged 18 to 25", Tag: "purple",
			Criteria: models.Criteria{AgeRange: &models.AgeRange{Min: 18, Max: 25}}},
		{ID: "upgrade-candidate", Name: SegmentUpgradeCandidate, Description: "Returning client with low spending (150 max)", Tag: "teal",
			Criteria: models.Criteria{MinVisits: ip(2), MaxSpending: fp(150)}},
	}
}
