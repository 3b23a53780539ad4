package catalog

import (
	"errors"

	"catalog-mirror/core/logger"
	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/utils"
	"catalog-mirror/feature/catalog/syncer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the mirrored catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/sync", h.HandleStartSync)
	group.Get("/sync/status", h.HandleSyncStatus)
	group.Get("/artists", h.HandleListArtists)
	group.Get("/artists/:id/popular", h.HandlePopularProducts)
	group.Get("/artists/:id/tags", h.HandleListTags)
	group.Get("/orders", h.HandleListOrders)
	group.Get("/offer-types", h.HandleListOfferTypes)
}

// HandleStartSync starts a catalog sync in the background.
// @Summary Start Sync
// @Description Starts reconciling the mirror with the remote catalog. Returns 409 when a sync is already running.
// @Tags catalog
// @Produce json
// @Param scope query string false "all, artists, items or orders" default(all)
// @Param artist_ids query string false "Comma separated artist ids overriding the configured ones"
// @Success 202 {object} map[string]string "Sync started"
// @Failure 400 {object} map[string]string "Unknown scope"
// @Failure 409 {object} map[string]string "Sync already running"
// @Router /catalog/sync [post]
func (h *Handler) HandleStartSync(c *fiber.Ctx) error {
	scope, ok := reconcile.ParseScope(c.Query("scope"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown scope " + c.Query("scope")})
	}

	if err := h.service.StartSync(scope, utils.ParseIDList(c.Query("artist_ids"))); err != nil {
		if errors.Is(err, syncer.ErrSyncInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return h.fail(c, "Failed to start sync", err)
	}

	logger.WithRayID(h.service.logger, c).Info("Catalog sync requested", zap.String("scope", string(scope)))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started", "scope": scope})
}

// HandleSyncStatus reports the sync history.
// @Summary Sync Status
// @Tags catalog
// @Produce json
// @Success 200 {object} SyncStatus
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	st, err := h.service.SyncStatus(c.Context())
	if err != nil {
		return h.fail(c, "Failed to read sync status", err)
	}
	return c.JSON(st)
}

// HandleListArtists lists mirrored artists.
// @Summary List Artists
// @Tags catalog
// @Produce json
// @Param ids query string false "Comma separated artist ids"
// @Success 200 {array} models.Artist
// @Router /catalog/artists [get]
func (h *Handler) HandleListArtists(c *fiber.Ctx) error {
	artists, err := h.service.ListArtists(c.Context(), utils.ParseIDList(c.Query("ids")))
	if err != nil {
		return h.fail(c, "Failed to list artists", err)
	}
	return c.JSON(artists)
}

// HandlePopularProducts ranks an artist's buy button items by quantity sold.
// @Summary Most Popular Products
// @Tags catalog
// @Produce json
// @Param id path int true "Artist ID"
// @Param limit query int false "Maximum number of products"
// @Success 200 {array} PopularProduct
// @Router /catalog/artists/{id}/popular [get]
func (h *Handler) HandlePopularProducts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}
	products, err := h.service.MostPopularProducts(c.Context(), int64(id), c.QueryInt("limit"))
	if err != nil {
		return h.fail(c, "Failed to rank products", err)
	}
	return c.JSON(products)
}

// HandleListTags lists an artist's tags.
// @Summary List Tags
// @Tags catalog
// @Produce json
// @Param id path int true "Artist ID"
// @Success 200 {array} models.Tag
// @Router /catalog/artists/{id}/tags [get]
func (h *Handler) HandleListTags(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid artist id"})
	}
	tags, err := h.service.ListTags(c.Context(), int64(id))
	if err != nil {
		return h.fail(c, "Failed to list tags", err)
	}
	return c.JSON(tags)
}

// HandleListOrders lists orders newest first.
// @Summary List Orders
// @Tags catalog
// @Produce json
// @Param artist_ids query string false "Comma separated artist ids"
// @Success 200 {array} OrderView
// @Router /catalog/orders [get]
func (h *Handler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.Context(), utils.ParseIDList(c.Query("artist_ids")))
	if err != nil {
		return h.fail(c, "Failed to list orders", err)
	}
	return c.JSON(orders)
}

// HandleListOfferTypes lists the known offer types.
// @Summary List Offer Types
// @Tags catalog
// @Produce json
// @Success 200 {array} models.OfferType
// @Router /catalog/offer-types [get]
func (h *Handler) HandleListOfferTypes(c *fiber.Ctx) error {
	types, err := h.service.ListOfferTypes(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list offer types", err)
	}
	return c.JSON(types)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrNoDatabase) {
		status = fiber.StatusServiceUnavailable
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
