package journal

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

// Draft defaults
const (
	DefaultCoordinates = "0.0° N, 0.0° E"
	DefaultImage       = "image_1"
	ImageCount         = 14
)

var validate = validator.New()

// Draft is the input for a new observation. Title and Location must be
// non-empty before it can be submitted.
type Draft struct {
	Title       string    `json:"title" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Coordinates string    `json:"coordinates"`
	Date        time.Time `json:"date" validate:"required"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
}

// NewDraft returns an empty draft dated now with the default image
func NewDraft(now time.Time) Draft {
	return Draft{Date: now, Image: DefaultImage}
}

// Validate reports which required fields are missing
func (d *Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return errors.New(fmt.Errorf("missing required fields: %v", missing)).
		Component("journal").
		Category(errors.CategoryValidation).
		Context("fields", missing).
		Build()
}

// CanSubmit reports whether the draft passes validation
func (d *Draft) CanSubmit() bool {
	return d.Validate() == nil
}

// Observation builds the journal entry, filling default coordinates and
// image.
func (d *Draft) Observation() (Observation, error) {
	if err := d.Validate(); err != nil {
		return Observation{}, err
	}
	o := Observation{
		Title:       d.Title,
		Location:    d.Location,
		Coordinates: d.Coordinates,
		Date:        d.Date.Format(DateLayout),
		Image:       d.Image,
		Description: d.Description,
	}
	if o.Coordinates == "" {
		o.Coordinates = DefaultCoordinates
	}
	if o.Image == "" {
		o.Image = DefaultImage
	}
	return o, nil
}

// RandomImage picks one of image_1 … image_14. A nil r uses the global source.
func RandomImage(r *rand.Rand) string {
	var n int
	if r == nil {
		n = rand.IntN(ImageCount)
	} else {
		n = r.IntN(ImageCount)
	}
	return fmt.Sprintf("image_%d", n+1)
}
