// README: Catchment area aggregate.
package area

import (
	"time"

	"ummana/internal/types"
)

// Area is a geographic zone with a fixed coordinate. Driver fallback
// locations are midpoints over their assigned areas.
type Area struct {
	ID         types.ID    `json:"id"`
	Name       string      `json:"name"`
	Settlement string      `json:"settlement"`
	Ward       string      `json:"ward"`
	LGA        string      `json:"lga"`
	Location   types.Point `json:"location"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  *time.Time  `json:"updatedAt,omitempty"`
}
