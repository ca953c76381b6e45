package testutil

import (
	"fmt"
	"time"

	"github.com/nhle/rulebook/internal/mutate"
)

// FixedTime is the clock reading returned by FixedEngine.
var FixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// FixedEngine returns a mutation engine with a frozen clock and sequential
// IDs ("id-1", "id-2", ...), so documents built in tests are deterministic.
func FixedEngine() *mutate.Engine {
	n := 0
	return &mutate.Engine{
		Now: func() time.Time { return FixedTime },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}
