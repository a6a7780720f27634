package board

import (
	"fmt"
	"time"
)

// DefaultSeedCount matches the size used for stress testing the board.
const DefaultSeedCount = 5000

// Seed builds a board of count synthetic tasks, distributed round-robin over
// the columns and priorities. Ids are "stress-N". Filters are left empty.
func Seed(count int, now time.Time) Snapshot {
	snap := EmptySnapshot()
	if count <= 0 {
		return snap
	}
	snap.Tasks = make(map[string]Task, count)
	priorities := []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	base := now.UnixMilli()

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("stress-%d", i)
		col := Columns[i%len(Columns)]
		snap.Tasks[id] = Task{
			ID:          id,
			Title:       fmt.Sprintf("Stress Task %d", i),
			Description: fmt.Sprintf("Description for stress task %d. Testing performance with large datasets.", i),
			Status:      col.Status(),
			Priority:    priorities[i%len(priorities)],
			// spread creation over the last few hours so relative labels vary
			CreatedAt: base - int64(i%1000)*10_000,
			UpdatedAt: base,
		}
		snap.Order = snap.Order.withColumn(col, append(snap.Order.Column(col), id))
	}
	return snap
}
