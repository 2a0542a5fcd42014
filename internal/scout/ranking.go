package scout

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/phorde/freefleet/internal/core/domain"
)

var paramCountRe = regexp.MustCompile(`(\d+)b`)

// paramCount extracts the parameter count (in billions) from a model id.
// Returns 0 when the id carries no "<digits>b" marker; such models tie on
// this criterion and fall through to the next.
func paramCount(modelID string) int {
	m := paramCountRe.FindStringSubmatch(strings.ToLower(modelID))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// RankModelsByBenchmark stable-sorts models for a category using, in strict
// priority order: elite-family membership, the static provider priority
// table, parameter count (larger wins, except in speed where smaller wins),
// and finally the lexicographic id.
func RankModelsByBenchmark(models []domain.FreeModel, category domain.Category) []domain.FreeModel {
	ranked := make([]domain.FreeModel, len(models))
	copy(ranked, models)

	for i := range ranked {
		ranked[i].IsElite = isEliteFor(ranked[i].ID, category)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.IsElite != b.IsElite {
			return a.IsElite
		}

		pa, pb := priorityOf(a.Provider), priorityOf(b.Provider)
		if pa != pb {
			return pa < pb
		}

		ca, cb := paramCount(a.ID), paramCount(b.ID)
		if ca != 0 && cb != 0 && ca != cb {
			if category == domain.CategorySpeed {
				return ca < cb
			}
			return ca > cb
		}

		return a.ID < b.ID
	})

	return ranked
}
