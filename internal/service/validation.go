package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every service; it is safe for concurrent use once
// the custom tags are registered.
var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("meetingtime", validateMeetingTimeTag); err != nil {
		panic(fmt.Sprintf("registering meetingtime validation: %v", err))
	}
}

func validateMeetingTimeTag(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	return domain.IsValidMeetingTime(s)
}

type agendaInput struct {
	Name        string  `validate:"required,max=200"`
	MeetingTime *string `validate:"omitempty,meetingtime"`
}

type meetingTimeInput struct {
	MeetingTime *string `validate:"omitempty,meetingtime"`
}

type documentInput struct {
	Number string `validate:"required,max=64"`
	Owner  string `validate:"required"`
}

type moveInput struct {
	ItemID     string `validate:"required"`
	ToAgendaID string `validate:"required"`
}

// validateStruct runs the struct tags on v and folds field errors into one
// error wrapping domain.ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_without":
		return fmt.Sprintf("%s is required when %s is not set", fe.Field(), fe.Param())
	case "meetingtime":
		return fmt.Sprintf("%s %v must look like \"9:30 AM ET\" or \"13:30 CET\"", fe.Field(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s length must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

// checkPatch rejects patches that both set and clear the same field.
func checkPatch(p ItemPatch) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	switch {
	case p.Order != nil && p.ClearOrder:
		return fmt.Errorf("%w: order cannot be set and cleared at once", domain.ErrValidation)
	case p.DurationMin != nil && p.ClearDuration:
		return fmt.Errorf("%w: duration cannot be set and cleared at once", domain.ErrValidation)
	case p.DocumentID != nil && p.ClearDocument:
		return fmt.Errorf("%w: document cannot be set and cleared at once", domain.ErrValidation)
	}
	return nil
}
