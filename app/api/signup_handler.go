package api

import (
	"context"
	"log/slog"
	"time"

	"faq/types"

	"github.com/gofiber/fiber/v2"
)

// LeadWriter persists one signup.
type LeadWriter interface {
	AppendLead(ctx context.Context, lead types.Lead) error
}

// SessionMarker records that the caller completed the signup form.
type SessionMarker interface {
	Mark(c *fiber.Ctx) error
}

type SignupHandler struct {
	writer   LeadWriter
	sessions SessionMarker
	logger   *slog.Logger
	now      func() time.Time
}

func NewSignupHandler(writer LeadWriter, sessions SessionMarker) *SignupHandler {
	return &SignupHandler{
		writer:   writer,
		sessions: sessions,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// HandleSignup validates the form and appends exactly one lead row. A failed
// write is reported in the body and leaves the session unmarked.
func (h *SignupHandler) HandleSignup(c *fiber.Ctx) error {
	var params types.SignupParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	lang := types.ParseLang(params.Lang)
	if err := h.writer.AppendLead(c.UserContext(), params.Lead(h.now())); err != nil {
		h.logger.Error("[SIGNUP] write failed", "error", err)
		return c.JSON(types.SignupResponse{
			OK:      false,
			Message: types.Message(lang, types.MsgWriteFail),
		})
	}

	if err := h.sessions.Mark(c); err != nil {
		return err
	}
	h.logger.Info("[SIGNUP] lead saved", "lang", lang, "program", params.Program)

	return c.JSON(types.SignupResponse{
		OK:      true,
		Message: types.Message(lang, types.MsgSignupOK),
	})
}
