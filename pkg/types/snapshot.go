package types

import "time"

// Snapshot is a verbatim copy of the store file taken at CreatedAt.
type Snapshot struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}
