package api

import (
	"log/slog"

	"faq/app/agent"
	"faq/cache"
	"faq/store"
	"faq/types"

	"github.com/gofiber/fiber/v2"
)

type FAQHandler struct {
	listing *cache.Cache[[]types.QARecord]
	index   *cache.Cache[store.Index]
	logger  *slog.Logger
}

func NewFAQHandler(listing *cache.Cache[[]types.QARecord], index *cache.Cache[store.Index]) *FAQHandler {
	return &FAQHandler{
		listing: listing,
		index:   index,
		logger:  slog.Default(),
	}
}

func (h *FAQHandler) HandleList(c *fiber.Ctx) error {
	records, err := h.listing.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(agent.Listing(records, types.ParseLang(c.Query("lang"))))
}

// HandleRefresh drops the cached index and listing. Both reload on next use.
func (h *FAQHandler) HandleRefresh(c *fiber.Ctx) error {
	h.index.Invalidate()
	h.listing.Invalidate()
	h.logger.Info("[CACHE] invalidated", "caches", []string{"index", "listing"})
	return c.JSON(fiber.Map{"result": "ok"})
}
