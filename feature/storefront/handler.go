package storefront

import (
	"errors"
	"strings"

	"catalog-mirror/core/logger"
	"catalog-mirror/feature/storefront/compose"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for storefronts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the storefront routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/stores")
	group.Get("/", h.HandleListStores)
	group.Post("/", h.HandleCreateStore)
	group.Get("/:id", h.HandleGetStore)
	group.Put("/:id", h.HandleUpdateStore)
	group.Delete("/:id", h.HandleDeleteStore)
	group.Get("/:id/items", h.HandleStoreItems)
	group.Get("/:id/featured", h.HandleFeaturedItems)

	app.Get("/items", h.HandleFilteredItems)
}

// HandleListStores lists stores.
// @Summary List Stores
// @Tags storefront
// @Produce json
// @Param status query string false "publish or trash"
// @Success 200 {array} models.Store
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stores [get]
func (h *Handler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.service.ListStores(c.Context(), c.Query("status"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(stores)
}

// HandleCreateStore creates a store.
// @Summary Create Store
// @Description Creates a store. Offer types and tags not listed as active are stored as inactive.
// @Tags storefront
// @Accept json
// @Produce json
// @Param store body StoreInput true "Store"
// @Success 201 {object} models.Store
// @Failure 400 {object} map[string]string "Invalid store"
// @Router /stores [post]
func (h *Handler) HandleCreateStore(c *fiber.Ctx) error {
	var in StoreInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	store, err := h.service.CreateStore(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleGetStore returns a store with its activation lists.
// @Summary Get Store
// @Tags storefront
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {object} models.Store
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id} [get]
func (h *Handler) HandleGetStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	store, err := h.service.GetStore(c.Context(), int64(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(store)
}

// HandleUpdateStore replaces a store's settings.
// @Summary Update Store
// @Tags storefront
// @Accept json
// @Produce json
// @Param id path int true "Store ID"
// @Param store body StoreInput true "Store"
// @Success 200 {object} models.Store
// @Failure 400 {object} map[string]string "Invalid store"
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id} [put]
func (h *Handler) HandleUpdateStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	var in StoreInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	store, err := h.service.UpdateStore(c.Context(), int64(id), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(store)
}

// HandleDeleteStore trashes or removes a store.
// @Summary Delete Store
// @Tags storefront
// @Param id path int true "Store ID"
// @Param force query bool false "Remove instead of moving to the trash"
// @Success 204
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id} [delete]
func (h *Handler) HandleDeleteStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	if err := h.service.DeleteStore(c.Context(), int64(id), c.QueryBool("force")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStoreItems returns one page of a store's composed listing.
// @Summary Store Items
// @Tags storefront
// @Produce json
// @Param id path int true "Store ID"
// @Param page query int false "Page number" default(1)
// @Param show_hidden query bool false "Include hidden manual items"
// @Param artist_id query int false "Artist override"
// @Success 200 {object} Page
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id}/items [get]
func (h *Handler) HandleStoreItems(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	page, err := h.service.StorePage(c.Context(), int64(id), c.QueryInt("page", 1), c.QueryBool("show_hidden"), int64(c.QueryInt("artist_id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

// HandleFeaturedItems returns a store's featured items.
// @Summary Featured Items
// @Tags storefront
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {array} compose.ItemView
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id}/featured [get]
func (h *Handler) HandleFeaturedItems(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	items, err := h.service.GetFeaturedItems(c.Context(), int64(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

// HandleFilteredItems lists items by offer type and tag outside any store.
// @Summary Filtered Items
// @Tags storefront
// @Produce json
// @Param offer_types query string false "Comma separated offer types"
// @Param tags query string false "Comma separated tags"
// @Param artist_id query int false "Artist ID"
// @Param order query string false "alphabetical or chronological"
// @Success 200 {array} compose.ItemView
// @Router /items [get]
func (h *Handler) HandleFilteredItems(c *fiber.Ctx) error {
	items, err := h.service.ComposeFilteredItems(c.Context(),
		splitList(c.Query("offer_types")),
		splitList(c.Query("tags")),
		int64(c.QueryInt("artist_id")),
		c.Query("order"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrStoreNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidStore), errors.Is(err, compose.ErrInvalidManualEntry):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Storefront request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store id"})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
