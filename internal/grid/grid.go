// Package grid enumerates threshold combinations for a parameter sweep.
package grid

import (
	"fmt"
	"math"

	"hoops-edge-lab/internal/domain"
)

// ratioSumTolerance absorbs float noise when checking that split ratios
// cover the whole dataset.
const ratioSumTolerance = 1e-9

// Validate rejects grids that would enumerate nothing or produce
// threshold values outside their meaningful ranges.
func Validate(cfg domain.GridConfig) error {
	if cfg.EntryStep <= 0 || cfg.ExitStep <= 0 {
		return fmt.Errorf("grid steps must be positive: entry=%g exit=%g", cfg.EntryStep, cfg.ExitStep)
	}
	if cfg.EntryMin <= 0 {
		return fmt.Errorf("entry_min must be positive, got %g", cfg.EntryMin)
	}
	if cfg.EntryMin > cfg.EntryMax {
		return fmt.Errorf("entry range inverted: min %g > max %g", cfg.EntryMin, cfg.EntryMax)
	}
	if cfg.ExitMin < 0 {
		return fmt.Errorf("exit_min must be non-negative, got %g", cfg.ExitMin)
	}
	if cfg.ExitMin > cfg.ExitMax {
		return fmt.Errorf("exit range inverted: min %g > max %g", cfg.ExitMin, cfg.ExitMax)
	}
	return nil
}

// ValidateRatios checks that the train/valid/test split covers the dataset.
func ValidateRatios(r domain.SplitRatios) error {
	if r.Train < 0 || r.Valid < 0 || r.Test < 0 {
		return fmt.Errorf("split ratios must be non-negative: %+v", r)
	}
	if sum := r.Train + r.Valid + r.Test; math.Abs(sum-1.0) > ratioSumTolerance {
		return fmt.Errorf("split ratios sum to %g, want 1.0", sum)
	}
	return nil
}

// axisValues expands one [min, max, step] axis by index rather than by
// repeated addition, so accumulated float error cannot drop the last value.
func axisValues(min, max, step float64) []float64 {
	count := int(math.Round((max-min)/step)) + 1
	if count < 1 {
		count = 1
	}
	values := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		values = append(values, min+float64(i)*step)
	}
	return values
}

// Generate returns the full Cartesian product of the entry and exit axes,
// entry-major, matching Count in length.
func Generate(cfg domain.GridConfig) ([]domain.Combination, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	entries := axisValues(cfg.EntryMin, cfg.EntryMax, cfg.EntryStep)
	exits := axisValues(cfg.ExitMin, cfg.ExitMax, cfg.ExitStep)

	combos := make([]domain.Combination, 0, len(entries)*len(exits))
	for _, entry := range entries {
		for _, exit := range exits {
			combos = append(combos, domain.Combination{
				EntryThreshold: entry,
				ExitThreshold:  exit,
			})
		}
	}
	return combos, nil
}

// Count reports how many combinations Generate will produce without
// materializing them.
func Count(cfg domain.GridConfig) (int, error) {
	if err := Validate(cfg); err != nil {
		return 0, err
	}
	entries := int(math.Round((cfg.EntryMax-cfg.EntryMin)/cfg.EntryStep)) + 1
	exits := int(math.Round((cfg.ExitMax-cfg.ExitMin)/cfg.ExitStep)) + 1
	return entries * exits, nil
}
