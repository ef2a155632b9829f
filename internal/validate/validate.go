package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"

	"github.com/Skotchmaster/acme_store/internal/apperr"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// Check validates val against its validate tags. The first failing field is
// reported as an apperr.ErrValidation.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
		}
		if len(verrors) < 1 {
			return nil
		}
		return fmt.Errorf("%w: %s", apperr.ErrValidation, verrors[0].Translate(translator))
	}
	return nil
}

// ParseID parses a path or body id.
func ParseID(name, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", apperr.ErrValidation, name)
	}
	return parsed, nil
}

// Echo adapts Check to echo.Validator.
type Echo struct{}

func (Echo) Validate(i any) error {
	return Check(i)
}
