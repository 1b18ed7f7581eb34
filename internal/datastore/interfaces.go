// interfaces.go: the durable key/value store behind every persisted preference
package datastore

// Interface is a simple persistent dictionary. Writes are synchronous: once
// Set or Delete returns nil, a following Get observes the change.
type Interface interface {
	Open() error
	// Get returns the stored value and whether the key exists
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error
	// Keys lists stored keys in ascending order
	Keys() ([]string, error)
	Close() error
}

// Keys used by the application
const (
	KeyStudiedBirds     = "StudiedBirds"
	KeyFavouriteBirds   = "FavouriteBirds"
	KeyUserObservations = "UserObservations"
	KeySawBird          = "SawBirdObservations"
	KeyFoundEgg         = "FoundEggObservations"
	KeyWatchedNest      = "WatchedNestObservations"
	KeyBestScore        = "bestScore"
	KeyBestPairs        = "bestPairs"
	KeyBestMoves        = "bestMoves"
	KeyTemperatureUnit  = "SelectedTemperatureUnit"
	KeyDistanceUnit     = "SelectedDistanceUnit"
)
