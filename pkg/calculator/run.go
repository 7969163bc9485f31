package calculator

import (
	"context"
	"fmt"
	"io"
	"os"

	"client-insights/pkg/logger"
	"client-insights/pkg/models"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// InteractionRepository : source (lecture seule) des interactions.
type InteractionRepository interface {
	GetInteractions(ctx context.Context, clientID string) ([]models.Interaction, error)
	GetAllInteractions(ctx context.Context) ([]models.Interaction, error)
}

// ProfileRepository : source (lecture seule) des profils. GetProfile → models.ErrNotFound si inconnu.
type ProfileRepository interface {
	GetProfile(ctx context.Context, clientID string) (models.ClientProfile, error)
	ListProfiles(ctx context.Context) ([]models.ClientProfile, error)
}

// Store regroupe les deux dépôts.
type Store interface {
	InteractionRepository
	ProfileRepository
}

// Result : sortie du batch.
type Result struct {
	RunID      string                     `json:"runId"`
	Insights   []models.ClientInsight     `json:"insights"`
	Statistics models.PortfolioStatistics `json:"statistics"`
}

// InsightFor charge profil + interactions d'un client puis compose son insight.
func (e *Engine) InsightFor(ctx context.Context, store Store, cfg models.Config, clientID string) (models.ClientInsight, models.ClientProfile, error) {
	profile, err := store.GetProfile(ctx, clientID)
	if err != nil {
		return models.ClientInsight{}, models.ClientProfile{}, fmt.Errorf("profile %s: %w", clientID, err)
	}
	interactions, err := store.GetInteractions(ctx, clientID)
	if err != nil {
		return models.ClientInsight{}, profile, fmt.Errorf("interactions %s: %w", clientID, err)
	}
	in, err := e.ComputeInsight(cfg, clientID, interactions, &profile)
	if err != nil {
		return models.ClientInsight{}, profile, fmt.Errorf("insight %s: %w", clientID, err)
	}
	return in, profile, nil
}

// Run : charge toute la clientèle, calcule les insights en parallèle (ordre des profils
// conservé) puis agrège les statistiques.
func (e *Engine) Run(ctx context.Context, store Store, cfg models.Config, log *logger.Logger) (Result, error) {
	runID := uuid.NewString()
	log = log.With("run_id", runID)

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list profiles: %w", err)
	}
	all, err := store.GetAllInteractions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list interactions: %w", err)
	}
	byClient := make(map[string][]models.Interaction, len(profiles))
	for _, it := range all {
		byClient[it.ClientID] = append(byClient[it.ClientID], it)
	}
	log.Info("population loaded", "clients", len(profiles), "interactions", len(all))

	var out io.Writer = io.Discard
	if cfg.Verbose {
		out = os.Stderr
	}
	bar := progressbar.NewOptions(len(profiles),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("insights"),
		progressbar.OptionShowCount(),
	)

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	insights := make([]models.ClientInsight, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range profiles {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := profiles[i]
			in, err := e.ComputeInsight(cfg, p.ID, byClient[p.ID], &p)
			if err != nil {
				return fmt.Errorf("insight %s: %w", p.ID, err)
			}
			insights[i] = in
			_ = bar.Add(1)
			log.Debug("insight computed", "client_id", p.ID, "segments", in.Segments,
				"churn_risk", in.ChurnRisk, "ltv", in.LifetimeValue)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	_ = bar.Finish()

	stats := ComputeStatistics(cfg, insights)
	if stats.Baseline {
		log.Warn("small population, returning illustrative baseline statistics", "clients", len(insights))
	}
	log.Info("run complete", "clients", stats.TotalClients, "at_risk", stats.AtRiskClients)
	return Result{RunID: runID, Insights: insights, Statistics: stats}, nil
}
