package racer

import (
	"context"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
)

// FallbackOptions tunes RaceWithFallback.
type FallbackOptions struct {
	Options
	// Depth is the number of retry waves attempted after the primary race
	// fails completely.
	Depth int
	// OnFallback is invoked before each retry wave with the 1-based attempt
	// number and the candidate ids about to be raced.
	OnFallback func(attempt int, candidates []string)
}

// RaceWithFallback races the primary candidates, then staged slices of the
// fallback list, one wave at a time, until a wave produces a winner or the
// fallback depth is exhausted.
func (r *Racer) RaceWithFallback(ctx context.Context, primary, fallback []string, exec Executor, opts FallbackOptions) (*Outcome, error) {
	waveSize := len(primary)
	if waveSize == 0 {
		waveSize = 1
	}

	waves := [][]string{primary}
	for start := 0; start < len(fallback) && len(waves) <= opts.Depth; start += waveSize {
		end := start + waveSize
		if end > len(fallback) {
			end = len(fallback)
		}
		waves = append(waves, fallback[start:end])
	}

	var lastErr error
	attempts := 0
	for i, wave := range waves {
		if len(wave) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++

		if i > 0 {
			if opts.OnFallback != nil {
				opts.OnFallback(attempts, wave)
			}
			r.log.Info("falling back to next wave",
				zap.Int("attempt", attempts),
				zap.Strings("candidates", wave),
			)
		}

		outcome, err := r.Race(ctx, wave, exec, opts.Options)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = domain.ErrNoCandidates
	}
	return nil, &domain.ExhaustedError{Attempts: attempts, Last: lastErr}
}
