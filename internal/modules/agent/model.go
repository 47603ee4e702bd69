// README: CHIPS agent aggregate.
package agent

import (
	"time"

	"ummana/internal/types"
)

// Agent is a community field worker who originates ride requests.
type Agent struct {
	ID               types.ID   `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	PhoneNumber      string     `json:"phoneNumber"`
	Username         string     `json:"username"`
	CatchmentAreaIDs []types.ID `json:"catchmentAreaIds"`
	PushToken        *string    `json:"pushToken,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (a *Agent) FullName() string {
	return a.FirstName + " " + a.LastName
}
