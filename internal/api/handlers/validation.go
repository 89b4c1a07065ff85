package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// 5MB of base64 photo plus the rest of the form
const maxBodyBytes = 8 << 20

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidator reports fields by their json names with English messages.
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, nil, err
	}
	err := validate.RegisterTranslation("notblank", trans, func(tr ut.Translator) error {
		return tr.Add("notblank", "{0} must not be blank", true)
	}, func(tr ut.Translator, fe validator.FieldError) string {
		msg, _ := tr.T("notblank", fe.Field())
		return msg
	})
	if err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		h.errorResponse(w, r, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("invalid request body: %v", err),
		})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrors []ValidationError
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				validationErrors = append(validationErrors, ValidationError{
					Field:   fe.Field(),
					Message: fe.Translate(h.trans),
				})
			}
		}

		h.errorResponse(w, r, &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: "Input validation failed",
			Errors:  validationErrors,
		})
		return false
	}

	return true
}
