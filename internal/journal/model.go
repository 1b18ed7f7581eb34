// Package journal holds the observation journal: bundled seed observations
// followed by the ones the user adds, and the saw-bird, found-egg and
// watched-nest marks on them.
package journal

// DateLayout is the wire format of Observation.Date
const DateLayout = "2006-01-02"

// Observation is one journal entry. ID is regenerated on every decode and is
// not persisted; entries are identified by Key.
type Observation struct {
	ID          string `json:"-"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Coordinates string `json:"coordinates"`
	Date        string `json:"date"`
	Image       string `json:"image"`
	Description string `json:"description"`

	// Seed marks bundled, read-only entries
	Seed bool `json:"-"`
}

// Key returns the natural key "<title>_<date>". Two observations sharing
// title and date share every tracked mark and deduplicate on save.
func Key(o Observation) string {
	return o.Title + "_" + o.Date
}

// Key returns the observation's natural key
func (o Observation) Key() string { return Key(o) }
