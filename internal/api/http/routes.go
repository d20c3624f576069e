package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// OrchestratorFactory builds the orchestrator backing a new session.
type OrchestratorFactory func() (*weather.Orchestrator, error)

// sessionResponse is the body returned by every session endpoint.
type sessionResponse struct {
	ID    string             `json:"id"`
	State weather.QueryState `json:"state"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *store.SessionStore, newOrchestrator OrchestratorFactory) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		o, err := newOrchestrator()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create session")
		}

		// Give the presenter a backdrop before the first search.
		o.Bootstrap(c.UserContext())

		id := sessions.Create(o)
		return c.Status(fiber.StatusCreated).JSON(sessionResponse{ID: id, State: o.State()})
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		id, o, err := lookupSession(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(sessionResponse{ID: id, State: o.State()})
	})

	v1.Post("/sessions/:id/search", func(c *fiber.Ctx) error {
		id, o, err := lookupSession(c, sessions)
		if err != nil {
			return err
		}

		var req searchRequest
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Blank cities are not rejected here: the orchestrator reports them as
		// a failed query so the presenter shows the usual message.
		state := o.Submit(c.UserContext(), req.City)
		return c.JSON(sessionResponse{ID: id, State: state})
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		params, err := parseSessionParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := sessions.Delete(params.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "session not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete session")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// sessionParams holds the path parameters identifying a session.
type sessionParams struct {
	ID string `validate:"required,uuid4"`
}

func parseSessionParams(c *fiber.Ctx) (sessionParams, error) {
	p := sessionParams{ID: c.Params("id")}
	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}

func lookupSession(c *fiber.Ctx, sessions *store.SessionStore) (string, *weather.Orchestrator, error) {
	params, err := parseSessionParams(c)
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	o, err := sessions.Get(params.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return "", nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
	}
	return params.ID, o, nil
}

// searchRequest is the body (or query string) of a search.
type searchRequest struct {
	City string `json:"city" form:"city" validate:"max=200"`
}

func (r *searchRequest) bind(c *fiber.Ctx) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(r); err != nil {
			return errors.New("invalid request body")
		}
	} else {
		r.City = c.Query("city")
	}

	// Fiber strings alias the request buffer, which is reused once the
	// handler returns; the city ends up in long-lived session state.
	r.City = utils.CopyString(r.City)

	return validate.Struct(r)
}
