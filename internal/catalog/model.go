// Package catalog holds the bird encyclopedia and the studied and favourite
// marks the user places on its entries.
package catalog

// EggInfo describes a species' eggs
type EggInfo struct {
	Shape      string `json:"shape"`
	Color      string `json:"color"`
	ClutchSize string `json:"clutch_size"`
}

// Bird is one encyclopedia entry. ID is regenerated at every load; Name is
// unique and is the key used for progress tracking.
type Bird struct {
	ID         string  `json:"-"`
	Name       string  `json:"name"`
	Region     string  `json:"region"`
	Behavior   string  `json:"behavior"`
	Appearance string  `json:"appearance"`
	EggInfo    EggInfo `json:"egg_info"`
	Image      string  `json:"image"`
	Notes      string  `json:"notes"`
}
