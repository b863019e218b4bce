package middleware

import (
	"faq/app/api"
	"faq/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const signedUpKey = "signed_up"

// SignupGate keeps the per-visitor "signed up" flag in a fiber session.
type SignupGate struct {
	store *session.Store
}

func NewSignupGate(store *session.Store) *SignupGate {
	if store == nil {
		store = session.New()
	}
	return &SignupGate{store: store}
}

// Mark flags the caller's session as signed up.
func (g *SignupGate) Mark(c *fiber.Ctx) error {
	sess, err := g.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(signedUpKey, true)
	return sess.Save()
}

func (g *SignupGate) SignedUp(c *fiber.Ctx) (bool, error) {
	sess, err := g.store.Get(c)
	if err != nil {
		return false, err
	}
	ok, _ := sess.Get(signedUpKey).(bool)
	return ok, nil
}

// Require rejects callers that have not signed up with 403 and the
// localized prompt to fill in the form. The language comes from ?lang=.
func (g *SignupGate) Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := g.SignedUp(c)
		if err != nil {
			return err
		}
		if !ok {
			lang := types.ParseLang(c.Query("lang"))
			return api.ErrForbidden(types.Message(lang, types.MsgSignupNeed))
		}
		return c.Next()
	}
}
