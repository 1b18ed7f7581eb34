// conf/validate.go

package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings checks field constraints and cross-field rules that
// struct tags cannot express.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if err := validateStorageSettings(&settings.Storage); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateGameSettings(&settings.Game); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("error_count", len(ve.Errors)).
			Build()
	}
	return nil
}

func validateStorageSettings(s *StorageSettings) error {
	switch s.Type {
	case StorageSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path must be set for sqlite storage")
		}
	case StorageMySQL:
		var missing []string
		if s.MySQL.Host == "" {
			missing = append(missing, "host")
		}
		if s.MySQL.Username == "" {
			missing = append(missing, "username")
		}
		if s.MySQL.Database == "" {
			missing = append(missing, "database")
		}
		if len(missing) > 0 {
			return fmt.Errorf("storage.mysql is missing %s", strings.Join(missing, ", "))
		}
	}
	return nil
}

func validateGameSettings(g *GameSettings) error {
	if g.MismatchDelay < g.MatchDelay {
		return fmt.Errorf("game.mismatch_delay (%s) must not be shorter than game.match_delay (%s)", g.MismatchDelay, g.MatchDelay)
	}
	if g.TimeLimit%time.Second != 0 {
		return fmt.Errorf("game.time_limit must be a whole number of seconds, got %s", g.TimeLimit)
	}
	return nil
}
