package api

import (
	"context"
	"log/slog"

	"faq/types"

	"github.com/gofiber/fiber/v2"
)

// Answerer answers a question in the given language.
type Answerer interface {
	Answer(ctx context.Context, query string, lang types.Lang) (*types.Answer, error)
}

type RequestHandler struct {
	agent  Answerer
	logger *slog.Logger
}

func NewRequestHandler(agent Answerer) *RequestHandler {
	return &RequestHandler{
		agent:  agent,
		logger: slog.Default(),
	}
}

func (h *RequestHandler) HandleAsk(c *fiber.Ctx) error {
	var params types.AskParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	lang := types.ParseLang(params.Lang)
	h.logger.Info("[ASK] question received", "lang", lang, "chars", len(params.Question))

	resp, err := h.agent.Answer(c.UserContext(), params.Question, lang)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
