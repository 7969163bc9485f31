package calculator

import (
	"sort"
	"strings"

	"client-insights/pkg/models"
)

const (
	dateLayout            = "2006-01-02"
	indeterminate         = "Indeterminate"
	indeterminateNoVisits = "Indeterminate — no visit history"
	fallbackApproach      = "Ask about the client's needs and preferences to personalise the next visit."
)

// DefaultStrategies : approche recommandée par segment principal.
func DefaultStrategies() map[string]string {
	return map[string]string{
		SegmentLoyal:            "Thank them for their loyalty and offer priority booking or a loyalty reward.",
		SegmentHighValue:        "Offer premium services and exclusive products with personalised attention.",
		SegmentAtRisk:           "Reach out with a friendly reminder and a time-limited comeback discount.",
		SegmentInactive:         "Send a win-back campaign with a special offer to reactivate the client.",
		SegmentNew:              "Welcome the client, explain the services and offer a second-visit discount.",
		SegmentYoungAdult:       "Highlight trendy cuts and styling products through social channels.",
		SegmentUpgradeCandidate: "Suggest combo packages or premium add-ons to raise the average ticket.",
	}
}

// Engine lie les définitions de segments et la carte des stratégies (configuration statique,
// en lecture seule). Sans état entre deux appels : utilisable en parallèle.
type Engine struct {
	defs       []models.SegmentDefinition
	registry   []rule
	strategies map[string]string
}

// NewEngine construit le registre une seule fois. defs/strategies nil → valeurs par défaut.
func NewEngine(defs []models.SegmentDefinition, strategies map[string]string) *Engine {
	if defs == nil {
		defs = DefaultSegments()
	}
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	s := make(map[string]string, len(strategies))
	for k, v := range strategies {
		s[k] = v
	}
	d := append([]models.SegmentDefinition(nil), defs...)
	return &Engine{defs: d, registry: buildRegistry(d), strategies: s}
}

// Definitions renvoie une copie des définitions, dans l'ordre d'évaluation.
func (e *Engine) Definitions() []models.SegmentDefinition {
	return append([]models.SegmentDefinition(nil), e.defs...)
}

func (e *Engine) approach(segment string) string {
	if s, ok := e.strategies[segment]; ok && s != "" {
		return s
	}
	return fallbackApproach
}

// ComputeInsight compose l'insight d'un client. ErrNotFound si le profil est absent
// ou ne correspond pas à clientID. Les interactions d'autres clients sont ignorées.
func (e *Engine) ComputeInsight(cfg models.Config, clientID string, interactions []models.Interaction, profile *models.ClientProfile) (models.ClientInsight, error) {
	if profile == nil || profile.ID != clientID {
		return models.ClientInsight{}, models.ErrNotFound
	}
	own := make([]models.Interaction, 0, len(interactions))
	for _, it := range interactions {
		if it.ClientID == "" || it.ClientID == clientID {
			own = append(own, it)
		}
	}
	if len(own) == 0 {
		return e.baseline(clientID), nil
	}

	now := cfg.Observation
	facts := ComputeFacts(now, profile, own)
	segments := classify(e.registry, facts)
	apps := appointments(own)

	in := models.ClientInsight{
		ClientID:            clientID,
		VisitCount:          facts.VisitCount,
		VisitFrequency:      facts.VisitFrequencyDays,
		TotalSpent:          facts.TotalSpent,
		PreferredServices:   tally(apps, serviceName),
		PreferredBarbers:    tally(apps, func(it models.Interaction) string { return strings.TrimSpace(it.Barber) }),
		PurchaseHistory:     purchaseHistory(own),
		Segments:            segments,
		RecommendedApproach: e.approach(PrimarySegment(segments)),
		NextVisitPrediction: indeterminate,
		ChurnRisk:           EstimateChurnRisk(facts),
		LifetimeValue:       EstimateLifetimeValue(now, own),
	}
	if lv, ok := lastVisitDate(own); ok {
		in.LastVisit = &lv
	}
	if facts.VisitFrequencyDays > 0 && len(apps) > 0 {
		next := apps[len(apps)-1].Date.AddDate(0, 0, facts.VisitFrequencyDays)
		in.NextVisitPrediction = next.Format(dateLayout)
	}
	return in, nil
}

// baseline : insight fixe d'un client sans historique (rien à estimer).
func (e *Engine) baseline(clientID string) models.ClientInsight {
	return models.ClientInsight{
		ClientID:            clientID,
		PreferredServices:   []models.Preference{},
		PreferredBarbers:    []models.Preference{},
		Segments:            []string{SegmentNew},
		RecommendedApproach: e.approach(SegmentNew),
		NextVisitPrediction: indeterminateNoVisits,
		ChurnRisk:           models.ChurnMedium,
		LifetimeValue:       0,
	}
}

// ComputeAllInsights calcule les insights dans l'ordre de clients. Les clients sans
// interactions reçoivent l'insight de base.
func (e *Engine) ComputeAllInsights(cfg models.Config, clients []models.ClientProfile, interactionsByClient map[string][]models.Interaction) []models.ClientInsight {
	out := make([]models.ClientInsight, 0, len(clients))
	for i := range clients {
		c := clients[i]
		in, err := e.ComputeInsight(cfg, c.ID, interactionsByClient[c.ID], &c)
		if err != nil {
			continue
		}
		out = append(out, in)
	}
	return out
}

func serviceName(it models.Interaction) string {
	if s := strings.TrimSpace(it.Service); s != "" {
		return s
	}
	return strings.TrimSpace(it.Details)
}

// tally compte les occurrences, tri décroissant stable (égalité → ordre de première apparition).
func tally(apps []models.Interaction, key func(models.Interaction) string) []models.Preference {
	out := []models.Preference{}
	idx := map[string]int{}
	for _, it := range apps {
		k := key(it)
		if k == "" {
			continue
		}
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, models.Preference{Name: k, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func purchaseHistory(interactions []models.Interaction) models.PurchaseHistory {
	var ph models.PurchaseHistory
	sum := 0.0
	for _, it := range interactions {
		if it.Type != models.TypePurchase {
			continue
		}
		ph.Count++
		sum += it.Amount()
		if ph.LastPurchase == nil || it.Date.After(*ph.LastPurchase) {
			d := it.Date
			ph.LastPurchase = &d
		}
	}
	if ph.Count > 0 {
		ph.AverageValue = sum / float64(ph.Count)
	}
	return ph
}
