package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-backtest/internal/backtest"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
	backtestGroup.POST("/sweep", h.runSweep)
	backtestGroup.GET("/runs", h.listRuns)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req)
	if err != nil {
		if isInputError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to run backtest"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) runSweep(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.SweepRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.SweepService.RunSweep(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to run sweep"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) listRuns(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := h.service.BacktestService.GetRuns(ctx, model.GetBacktestRunsParam{
		Symbol:   c.QueryParam("symbol"),
		Strategy: c.QueryParam("strategy"),
		Limit:    limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
	}

	return c.JSON(http.StatusOK, runs)
}

// isInputError distinguishes caller mistakes from internal failures.
func isInputError(err error) bool {
	return errors.Is(err, backtest.ErrMisalignedIndex) ||
		errors.Is(err, backtest.ErrInvalidSeries) ||
		errors.Is(err, backtest.ErrInvalidConfig)
}
