package server

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/contract"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": s.deps.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) analyze(c *fiber.Ctx) error {
	var body contract.AnalyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}
	req, err := body.ToApp(s.deps.UserID)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := s.deps.Analysis.Analyze(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(contract.FromAnalysis(res))
}

func (s *Server) rank(c *fiber.Ctx) error {
	var body contract.RankRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}
	req, err := body.ToApp(s.deps.UserID, s.deps.TopK)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := s.deps.Rank.Rank(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(contract.FromRank(res))
}

func (s *Server) breakdown(c *fiber.Ctx) error {
	var body contract.BreakdownRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}
	req, err := body.ToApp(s.deps.UserID)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := s.deps.Analysis.PlanBreakdown(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(contract.FromBreakdown(res))
}

func (s *Server) ingestSignal(c *fiber.Ctx) error {
	var body contract.SignalInput
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}
	sig, err := body.ToDomain(s.deps.UserID, s.deps.Now().UTC())
	if err != nil {
		return badRequest(c, err)
	}
	if err := s.deps.Signals.Ingest(c.UserContext(), sig); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(contract.FromSignal(sig))
}

func (s *Server) capacity(c *fiber.Ctx) error {
	req := app.CapacityRequest{UserID: c.Query("user_id", s.deps.UserID)}
	var err error
	if req.Week, err = queryInt(c, "week"); err != nil {
		return badRequest(c, err)
	}
	if req.Year, err = queryInt(c, "year"); err != nil {
		return badRequest(c, err)
	}
	if v := c.Query("now"); v != "" {
		now, err := contract.ParseTime(v)
		if err != nil {
			return badRequest(c, err)
		}
		req.Now = &now
	}
	res, err := s.deps.Tasks.Capacity(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(contract.FromCapacity(res))
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(contract.InvalidInput(err))
}

// errorHandler renders use-case errors as the JSON envelope with a status
// derived from the error code.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(contract.ErrorBody{Code: "HTTP_ERROR", Message: fe.Message})
		}

		body := contract.FromError(err)
		status := statusFor(app.AnalysisErrorCode(body.Code))
		if status >= fiber.StatusInternalServerError {
			logger.Error("http_request_failed", "path", c.Path(), "code", body.Code, "error", err)
		}
		return c.Status(status).JSON(body)
	}
}

func statusFor(code app.AnalysisErrorCode) int {
	switch code {
	case app.ErrInvalidInput:
		return fiber.StatusBadRequest
	case app.ErrProjectNotFound:
		return fiber.StatusNotFound
	case app.ErrUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	case app.ErrSuggestionFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
