package models

import (
	"errors"
	"time"
)

// ErrNotFound : client inconnu (profil absent). Retourné, jamais paniqué.
var ErrNotFound = errors.New("client not found")

/*
LOAD → types bruts fournis par les dépôts (interactions, profils).
*/

// InteractionType est le type d'un point de contact client.
type InteractionType string

const (
	TypeAppointment InteractionType = "appointment"
	TypePurchase    InteractionType = "purchase"
	TypeCourse      InteractionType = "course"
	TypeSiteVisit   InteractionType = "site_visit"
	TypeMessage     InteractionType = "message"
)

// Valid indique si le type fait partie des cinq types connus.
func (t InteractionType) Valid() bool {
	switch t {
	case TypeAppointment, TypePurchase, TypeCourse, TypeSiteVisit, TypeMessage:
		return true
	}
	return false
}

// Interaction représente un fait immuable : un contact horodaté avec un client.
// Service et Barber ne sont renseignés que pour les rendez-vous.
type Interaction struct {
	ID       uint64          `json:"id"`
	ClientID string          `json:"clientId"`
	Type     InteractionType `json:"type"`
	Date     time.Time       `json:"date"`
	Value    *float64        `json:"value,omitempty"`
	Details  string          `json:"details"`
	Source   string          `json:"source,omitempty"`
	Service  string          `json:"service,omitempty"`
	Barber   string          `json:"barber,omitempty"`
}

// Amount renvoie la valeur monétaire, 0 si absente.
func (i Interaction) Amount() float64 {
	if i.Value == nil {
		return 0
	}
	return *i.Value
}

// ClientProfile contient les attributs d'identité du client (lecture seule).
type ClientProfile struct {
	ID        string     `json:"id"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

/*
SEGMENTS → configuration statique
*/

// AgeRange borne inclusive [Min, Max].
type AgeRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Criteria : bornes génériques d'un segment. nil = borne non définie (toujours satisfaite).
type Criteria struct {
	MinVisits     *int      `json:"minVisits,omitempty" yaml:"minVisits,omitempty"`
	MaxVisits     *int      `json:"maxVisits,omitempty" yaml:"maxVisits,omitempty"`
	MinSpending   *float64  `json:"minSpending,omitempty" yaml:"minSpending,omitempty"`
	MaxSpending   *float64  `json:"maxSpending,omitempty" yaml:"maxSpending,omitempty"`
	LastVisitDays *int      `json:"lastVisitDays,omitempty" yaml:"lastVisitDays,omitempty"` // récence minimale
	AgeRange      *AgeRange `json:"ageRange,omitempty" yaml:"ageRange,omitempty"`
}

// SegmentDefinition décrit un segment nommé. L'ordre des définitions compte :
// le premier segment correspondant devient le segment principal.
type SegmentDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Criteria    Criteria `json:"criteria" yaml:"criteria"`
	Tag         string   `json:"tag" yaml:"tag"`
}

/*
COMPUTE → faits dérivés et résultat par client
*/

// DerivedFacts : faits scalaires intermédiaires, jamais persistés.
type DerivedFacts struct {
	InteractionCount         int
	VisitCount               int
	TotalSpent               float64
	DaysSinceLastVisit       int
	DaysSinceLastInteraction int
	VisitFrequencyDays       int  // 0 = données insuffisantes, jamais "quotidien"
	Age                      *int // nil = inconnu
}

// ChurnRisk : niveau de risque d'attrition.
type ChurnRisk string

const (
	ChurnLow    ChurnRisk = "low"
	ChurnMedium ChurnRisk = "medium"
	ChurnHigh   ChurnRisk = "high"
)

// Preference : un service ou un barbier avec son nombre d'occurrences.
type Preference struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PurchaseHistory résume les achats du client.
type PurchaseHistory struct {
	Count        int        `json:"count"`
	AverageValue float64    `json:"averageValue"`
	LastPurchase *time.Time `json:"lastPurchase,omitempty"`
}

// ClientInsight est la valeur produite par le moteur pour un client.
// Toujours reconstruite, jamais modifiée en place.
type ClientInsight struct {
	ClientID            string          `json:"clientId"`
	VisitCount          int             `json:"visitCount"` // nombre de rendez-vous, libellés ou non
	VisitFrequency      int             `json:"visitFrequency"`
	LastVisit           *time.Time      `json:"lastVisit,omitempty"`
	TotalSpent          float64         `json:"totalSpent"`
	PreferredServices   []Preference    `json:"preferredServices"`
	PreferredBarbers    []Preference    `json:"preferredBarbers"`
	PurchaseHistory     PurchaseHistory `json:"purchaseHistory"`
	Segments            []string        `json:"segments"`
	RecommendedApproach string          `json:"recommendedApproach"`
	NextVisitPrediction string          `json:"nextVisitPrediction"`
	ChurnRisk           ChurnRisk       `json:"churnRisk"`
	LifetimeValue       float64         `json:"lifetimeValue"`
}

// PortfolioStatistics agrège les insights de toute la clientèle.
type PortfolioStatistics struct {
	TotalClients        int            `json:"totalClients"`
	ActiveClients       int            `json:"activeClients"`
	InactiveClients     int            `json:"inactiveClients"`
	AtRiskClients       int            `json:"atRiskClients"`
	AverageValue        float64        `json:"averageValue"`
	AverageFrequency    float64        `json:"averageFrequency"`
	SegmentDistribution map[string]int `json:"segmentDistribution"`
	Baseline            bool           `json:"baseline,omitempty"` // true = valeurs d'illustration, pas de données réelles
}

/*
CONFIG → paramètres globaux
*/
// Config contient les paramètres passés au moteur.
type Config struct {
	Observation         time.Time // "maintenant" injecté (UTC), rend les calculs reproductibles
	Workers             int       // parallélisme du calcul batch (<= 0 → 4)
	SmallSampleBaseline bool      // opt-in : statistiques d'illustration si <= 10 clients
	Verbose             bool      // Flag pour activer les logs détaillés.
}
