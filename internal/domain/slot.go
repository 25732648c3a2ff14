package domain

import "github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"

// Slot is a candidate bookable window of exactly the service duration.
// Rejected candidates are omitted, so Available is always true in results.
type Slot struct {
	Start     types.TimeString
	End       types.TimeString
	Available bool
}
