package ids

import "github.com/oklog/ulid/v2"

// New returns a lexically sortable id for campaigns, plans and reference rows.
func New() string {
	return ulid.Make().String()
}
