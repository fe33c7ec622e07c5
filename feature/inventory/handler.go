package inventory

import (
	"errors"
	"sort"

	"dog-inventory/core/logger"
	"dog-inventory/core/reconcile"
	"dog-inventory/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/", h.HandleList)
	group.Get("/graph", h.HandleGraph)
	group.Get("/runs", h.HandleRuns)
	group.Get("/hosts/:name", h.HandleGetHost)
	group.Get("/groups/:name", h.HandleGetGroup)
}

// HostResponse describes a single host.
type HostResponse struct {
	Name   string         `json:"name"`
	Vars   map[string]any `json:"vars"`
	Groups []string       `json:"groups"`
}

// HandleList returns the full dynamic inventory, the `--list` document.
// Query parameters: format=yaml renders YAML; hostvars=false empties _meta.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	res, err := h.service.Inventory(c.Context())
	if err != nil {
		return h.reconcileFailed(c, err)
	}

	doc := res.Graph.Export()
	if !utils.ToBool(c.Query("hostvars", "true")) {
		doc.Meta.HostVars = map[string]map[string]any{}
	}

	if c.Query("format") == "yaml" {
		out, err := yaml.Marshal(doc.Map())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(out)
	}
	return c.JSON(doc.Map())
}

// HandleGetHost returns the variables and groups of one host, the `--host`
// document plus membership.
func (h *Handler) HandleGetHost(c *fiber.Ctx) error {
	name := c.Params("name")
	res, err := h.service.Inventory(c.Context())
	if err != nil {
		return h.reconcileFailed(c, err)
	}

	host, ok := res.Graph.Host(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "host not found: " + name})
	}

	vars, _ := res.Graph.HostVars(name)
	groups := append([]string(nil), host.Groups...)
	sort.Strings(groups)
	return c.JSON(HostResponse{Name: name, Vars: vars, Groups: groups})
}

// HandleGetGroup returns one group entry as it appears in the inventory.
func (h *Handler) HandleGetGroup(c *fiber.Ctx) error {
	name := c.Params("name")
	res, err := h.service.Inventory(c.Context())
	if err != nil {
		return h.reconcileFailed(c, err)
	}

	entry, ok := res.Graph.Export().Groups[name]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "group not found: " + name})
	}
	return c.JSON(entry)
}

// HandleGraph returns the inventory as a text tree.
func (h *Handler) HandleGraph(c *fiber.Ctx) error {
	res, err := h.service.Inventory(c.Context())
	if err != nil {
		return h.reconcileFailed(c, err)
	}
	return c.SendString(res.Graph.Tree())
}

// HandleRuns returns the recorded run history, newest first.
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.Context(), c.QueryInt("limit", 0))
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// reconcileFailed writes the error response of a failed run. An unreachable
// source is reported as a bad gateway.
func (h *Handler) reconcileFailed(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Error("Reconcile failed", zap.Error(err))

	status := fiber.StatusInternalServerError
	var unavailable *reconcile.SourceUnavailableError
	if errors.As(err, &unavailable) {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
