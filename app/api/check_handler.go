package api

import (
	"faq/cache"
	"faq/store"

	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct {
	index *cache.Cache[store.Index]
}

func NewCheckHandler(index *cache.Cache[store.Index]) *CheckHandler {
	return &CheckHandler{index: index}
}

// HandleHealthy reports liveness and whether an index is currently loaded.
// It never triggers a load.
func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	resp := fiber.Map{"result": "ok", "index_loaded": false}
	if at, ok := h.index.LoadedAt(); ok {
		resp["index_loaded"] = true
		resp["index_loaded_at"] = at
	}
	return c.JSON(resp)
}
