package types

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("lead_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return v
}

type AskParams struct {
	Question string `json:"question" validate:"required"`
	Lang     string `json:"lang"`
}

type SignupParams struct {
	Lang          string `json:"lang"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	Program       string `json:"program"`
	Email         string `json:"email" validate:"lead_email"`
	PhoneOrWeixin string `json:"phone_or_weixin"`
	Consent       bool   `json:"consent" validate:"required"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *AskParams) Validate() map[string]string {
	params.Question = strings.TrimSpace(params.Question)
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// Validate trims the text fields and checks name, email and consent in
// that order. Only the first failing check is reported, localized.
func (params *SignupParams) Validate() map[string]string {
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)
	params.Program = strings.TrimSpace(params.Program)
	params.Email = strings.TrimSpace(params.Email)
	params.PhoneOrWeixin = strings.TrimSpace(params.PhoneOrWeixin)

	err := validate.Struct(params)
	if err == nil {
		return nil
	}
	failed := make(map[string]bool)
	for _, e := range err.(validator.ValidationErrors) {
		failed[e.Field()] = true
	}

	lang := ParseLang(params.Lang)
	switch {
	case failed["FirstName"] || failed["LastName"]:
		return map[string]string{"name": Message(lang, MsgErrName)}
	case failed["Email"]:
		return map[string]string{"email": Message(lang, MsgErrEmail)}
	default:
		return map[string]string{"consent": Message(lang, MsgErrConsent)}
	}
}

// Lead converts validated params into a signups row.
func (params *SignupParams) Lead(now time.Time) Lead {
	return Lead{
		Timestamp:     now,
		Lang:          ParseLang(params.Lang),
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Program:       params.Program,
		Email:         params.Email,
		PhoneOrWeixin: params.PhoneOrWeixin,
		Consent:       params.Consent,
	}
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

type Answer struct {
	Found      bool      `json:"found"`
	Answer     string    `json:"answer"`
	Sources    []Source  `json:"sources"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

type Source struct {
	DocID     string  `json:"doc_id"`
	ChunkText string  `json:"chunk_text"`
	Index     int     `json:"index"`
	Distance  float64 `json:"distance"`
}

type SignupResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
