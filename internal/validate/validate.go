// ABOUTME: Field-level validation run before any write reaches the store.
// ABOUTME: Wraps go-playground/validator with English messages keyed by JSON field names.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/harperreed/daybook/internal/models"
)

// Error is a rejected write with one human-readable message per failed field.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Messages returns the validation messages carried by err, or nil.
func Messages(err error) []string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Messages
	}
	return nil
}

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
	initErr  error
)

// Struct validates an entity and returns *Error on failure.
func Struct(s any) error {
	once.Do(func() {
		validate, trans, initErr = newValidator()
	})
	if initErr != nil {
		return fmt.Errorf("init validator: %w", initErr)
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return &Error{Messages: msgs}
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	tr, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, tr); err != nil {
		return nil, nil, fmt.Errorf("register default translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("taskwhen", isTaskWhen); err != nil {
		return nil, nil, fmt.Errorf("register taskwhen validation: %w", err)
	}
	if err := registerMessage(v, tr, "taskwhen", `{0} must be "today", "someday" or a YYYY-MM-DD date`); err != nil {
		return nil, nil, err
	}

	v.RegisterStructValidation(scheduleOrder, models.ScheduleItem{})
	if err := registerMessage(v, tr, "aftertime", "{0} must be later than startTime"); err != nil {
		return nil, nil, err
	}

	return v, tr, nil
}

func registerMessage(v *validator.Validate, tr ut.Translator, tag, text string) error {
	err := v.RegisterTranslation(tag, tr, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
	if err != nil {
		return fmt.Errorf("register %s translation: %w", tag, err)
	}
	return nil
}

func isTaskWhen(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "today" || s == "someday" {
		return true
	}
	_, err := models.ParseDate(s)
	return err == nil
}

// scheduleOrder rejects slots that end at or before they start.
// HH:MM strings compare correctly as text once both are well-formed.
func scheduleOrder(sl validator.StructLevel) {
	item := sl.Current().Interface().(models.ScheduleItem)
	if len(item.StartTime) != 5 || len(item.EndTime) != 5 {
		return
	}
	if item.EndTime <= item.StartTime {
		sl.ReportError(item.EndTime, "endTime", "EndTime", "aftertime", "")
	}
}
