package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-timeline/internal/weather"
)

var validate = validator.New()

// Deps are the components the HTTP surface reads from.
type Deps struct {
	Service  *weather.Service
	Model    *weather.Model
	Widget   *weather.Widget
	Cities   weather.CitySearcher
	Fallback *time.Location
	Now      weather.Clock
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coord := req.toCoordinate()
		// The fetch outlives the request.
		deps.Service.Locate(context.Background(), coord)

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":     "accepted",
			"coordinate": coord,
		})
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		state := deps.Service.State()
		resp := fiber.Map{
			"loading":   state.Loading,
			"aggregate": state.Aggregate,
		}
		if state.Aggregate != nil && state.Aggregate.Errors.Partial() {
			resp["errors"] = state.Aggregate.Errors.Messages()
		}
		return c.JSON(resp)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		if raw := c.Query("mode"); raw != "" {
			mode, err := weather.ParseDisplayMode(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			deps.Model.SetMode(mode)
		}

		return c.JSON(fiber.Map{
			"mode":        deps.Model.Mode().String(),
			"records":     deps.Model.Records(),
			"scrollIndex": deps.Model.ScrollIndex(),
			"itemCount":   deps.Model.ItemCount(),
		})
	})

	v1.Get("/details", func(c *fiber.Ctx) error {
		agg := deps.Model.Aggregate()
		if agg == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather data yet")
		}

		now := deps.now()
		sections := make([]weather.SectionData, 0, len(weather.Sections))
		for _, s := range weather.Sections {
			if d, ok := weather.SectionFor(agg, s, now, deps.Fallback); ok {
				sections = append(sections, d)
			}
		}

		return c.JSON(fiber.Map{
			"celestial": weather.CelestialFor(agg, now, deps.Fallback),
			"sections":  sections,
			"alerts":    deps.Model.Alerts(),
		})
	})

	v1.Get("/widget/timeline", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		tl := deps.Widget.Timeline(c.UserContext(), weather.WidgetConfig{Coordinate: q.toCoordinate()})
		entries := make([]entryView, 0, len(tl.Entries))
		for _, e := range tl.Entries {
			entries = append(entries, newEntryView(e))
		}

		return c.JSON(fiber.Map{
			"policy":  tl.Policy,
			"entries": entries,
		})
	})

	v1.Get("/widget/snapshot", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entry := deps.Widget.Snapshot(c.UserContext(), weather.WidgetConfig{Coordinate: q.toCoordinate()})
		return c.JSON(newEntryView(entry))
	})

	v1.Get("/widget/placeholder", func(c *fiber.Ctx) error {
		return c.JSON(newEntryView(weather.Placeholder(deps.now())))
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		q := cityQuery{Query: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cities := weather.SearchCities(c.UserContext(), deps.Cities, q.Query)
		out := make([]cityView, 0, len(cities))
		for _, city := range cities {
			out = append(out, cityView{City: city, Label: city.Label()})
		}
		return c.JSON(fiber.Map{
			"query":  q.Query,
			"cities": out,
		})
	})
}

// locationRequest is the body of a location report.
type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (l locationRequest) toCoordinate() weather.Coordinate {
	return weather.Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// coordinateQuery holds query parameters identifying a widget location.
type coordinateQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (q coordinateQuery) toCoordinate() weather.Coordinate {
	return weather.Coordinate{Latitude: q.Lat, Longitude: q.Lon}
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("invalid lon")
	}
	q.Lat = lat
	q.Lon = lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

type cityQuery struct {
	Query string `validate:"required,min=1,max=100"`
}

type cityView struct {
	weather.City
	Label string `json:"label"`
}

// entryView is the widget rendering of a timeline entry.
type entryView struct {
	Date                time.Time `json:"date"`
	Locality            string    `json:"locality"`
	Symbol              string    `json:"symbol"`
	ApparentTemperature string    `json:"apparentTemperature"`
	Condition           string    `json:"condition"`
	URL                 string    `json:"url,omitempty"`
}

func newEntryView(e weather.TimelineEntry) entryView {
	return entryView{
		Date:                e.Date,
		Locality:            e.Locality(),
		Symbol:              e.Symbol(),
		ApparentTemperature: e.ApparentLabel(),
		Condition:           e.ConditionLabel(),
		URL:                 e.URL(),
	}
}

// ErrorHandler is the centralized error response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	} else if errors.Is(err, weather.ErrInvalidCoordinate) {
		code = fiber.StatusBadRequest
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
