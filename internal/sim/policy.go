package sim

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/tomz197/convoy/internal/config"
)

// collisionPairs resolves a collision policy into the car pairs to test on
// every tick, for a roster of n cars (player included).
func collisionPairs(policy config.CollisionPolicy, explicit []config.Pair, n int) ([]config.Pair, error) {
	switch policy {
	case config.PolicyLeader:
		if n < 2 {
			return nil, nil
		}
		return []config.Pair{{0, 1}}, nil

	case config.PolicyPlayer:
		return lo.Map(lo.Range(n-1), func(i int, _ int) config.Pair {
			return config.Pair{0, i + 1}
		}), nil

	case config.PolicyAll:
		pairs := make([]config.Pair, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, config.Pair{i, j})
			}
		}
		return pairs, nil

	case config.PolicyPairs:
		for _, p := range explicit {
			if p[0] == p[1] || p[0] < 0 || p[1] < 0 || p[0] >= n || p[1] >= n {
				return nil, fmt.Errorf("collision pair %d-%d invalid for %d cars", p[0], p[1], n)
			}
		}
		ordered := lo.Map(explicit, func(p config.Pair, _ int) config.Pair {
			if p[0] > p[1] {
				return config.Pair{p[1], p[0]}
			}
			return p
		})
		return lo.Uniq(ordered), nil

	default:
		return nil, fmt.Errorf("unknown collision policy %q", policy)
	}
}
