package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/climatesense/climatesense/internal/directive"
	"github.com/climatesense/climatesense/internal/store"
	"github.com/climatesense/climatesense/internal/weather"
)

var validate = validator.New()

// ReportStore is the read surface the API exposes.
type ReportStore interface {
	LatestByCity(city string) (store.Record, error)
	RecentByCity(city string, n int) []store.Record
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, reports ReportStore, directives *directive.File) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/reports/latest", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := reports.LatestByCity(city)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no reports for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load report")
		}

		return c.JSON(rec)
	})

	v1.Get("/reports/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records := reports.RecentByCity(req.City, req.Limit)
		if len(records) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no reports for requested city")
		}

		return c.JSON(fiber.Map{
			"city":    req.City,
			"count":   len(records),
			"reports": records,
		})
	})

	v1.Get("/control", func(c *fiber.Ctx) error {
		return c.JSON(directives.Read())
	})

	v1.Put("/control", func(c *fiber.Ctx) error {
		var req controlRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := weather.ParseLocation(req.Location)
		if loc.City == "" || loc.Country == "" {
			return fiber.NewError(fiber.StatusBadRequest, `location must be in "City,CC" form`)
		}

		if err := directives.Write(directive.Directive{Location: req.Location}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update control file")
		}
		return c.JSON(directives.Read())
	})
}

type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City  string `validate:"required"`
	Limit int    `validate:"gte=1,lte=100"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	city, err := parseCityQuery(c)
	if err != nil {
		return err
	}
	h.City = city

	h.Limit = 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		h.Limit = n
	}
	return validate.Struct(h)
}

type controlRequest struct {
	Location string `json:"location" validate:"required"`
}
