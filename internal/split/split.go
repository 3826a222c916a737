// Package split partitions a season's games into train, validation and
// test sets. The partition is a pure function of the game id set, the
// ratios and the seed, so every run over the same season sees the same
// splits regardless of worker count or storage backend.
package split

import (
	"math"
	"math/rand"
	"sort"

	"hoops-edge-lab/internal/domain"
)

// Splits holds the three disjoint game id sets of one partition. Any of
// the slices may be empty when the dataset is small.
type Splits struct {
	Train []string
	Valid []string
	Test  []string
}

// Partition shuffles the sorted id set with a seeded generator and cuts it
// by ratio. Validation and test sizes round to nearest; train takes the
// remainder, so small datasets bias toward training data.
func Partition(gameIDs []string, ratios domain.SplitRatios, seed int64) Splits {
	ids := make([]string, len(gameIDs))
	copy(ids, gameIDs)
	sort.Strings(ids)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	n := len(ids)
	nValid := int(math.Round(ratios.Valid * float64(n)))
	nTest := int(math.Round(ratios.Test * float64(n)))
	if nValid+nTest > n {
		nTest = n - nValid
	}
	nTrain := n - nValid - nTest

	return Splits{
		Train: ids[:nTrain],
		Valid: ids[nTrain : nTrain+nValid],
		Test:  ids[nTrain+nValid:],
	}
}
