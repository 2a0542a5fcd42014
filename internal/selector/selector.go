// Package selector converts a category's ranked models into candidate id
// lists per the configured fleet mode.
package selector

import (
	"github.com/phorde/freefleet/internal/core/domain"
)

// Candidates is an ordered primary/fallback split of fully-qualified
// "provider/model" ids.
type Candidates struct {
	Primary  []string
	Fallback []string
}

// Select produces the candidate list for one race per the fleet mode:
// ultra_free races every free model, SOTA_only races only elite models up
// to raceCount, balanced races the top raceCount ranked models.
func Select(ranked []domain.FreeModel, mode domain.FleetMode, raceCount int) []string {
	if raceCount <= 0 {
		raceCount = 1
	}

	switch mode {
	case domain.ModeUltraFree:
		return fullIDs(ranked)
	case domain.ModeSOTAOnly:
		var elite []domain.FreeModel
		for _, m := range ranked {
			if m.IsElite {
				elite = append(elite, m)
			}
		}
		return fullIDs(truncate(elite, raceCount))
	default:
		return fullIDs(truncate(ranked, raceCount))
	}
}

// SelectWithFallback splits the ranked list into the first raceCount
// models as primary and everything after as fallback, regardless of mode.
// This feeds the delegator's race-with-fallback path.
func SelectWithFallback(ranked []domain.FreeModel, raceCount int) Candidates {
	if raceCount <= 0 {
		raceCount = 1
	}
	if raceCount > len(ranked) {
		raceCount = len(ranked)
	}
	return Candidates{
		Primary:  fullIDs(ranked[:raceCount]),
		Fallback: fullIDs(ranked[raceCount:]),
	}
}

func truncate(models []domain.FreeModel, n int) []domain.FreeModel {
	if n > len(models) {
		n = len(models)
	}
	return models[:n]
}

func fullIDs(models []domain.FreeModel) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.FullID())
	}
	return out
}
