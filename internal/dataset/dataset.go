// Package dataset provides the read-only reference data shipped with the
// binary: the bird encyclopedia and the seed journal observations.
package dataset

import (
	"embed"
	"os"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

//go:embed data/encyclopedia.json data/observations.json
var bundled embed.FS

// Bundled dataset names
const (
	Encyclopedia = "encyclopedia.json"
	Observations = "observations.json"
)

// Read returns the named bundled dataset, or the file at override when it
// is not empty. Failures are categorized as dataset-load errors.
func Read(name, override string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	source := "embedded"
	if override != "" {
		source = override
		data, err = os.ReadFile(override) //nolint:gosec // path comes from operator config
	} else {
		data, err = bundled.ReadFile("data/" + name)
	}
	if err != nil {
		return nil, errors.New(err).
			Component("dataset").
			Category(errors.CategoryDatasetLoad).
			Context("dataset", name).
			Context("source", source).
			Build()
	}
	return data, nil
}
