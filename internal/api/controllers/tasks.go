package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/datallboy/godl/internal/app"
	"github.com/datallboy/godl/internal/domain"
	"github.com/labstack/echo/v5"
)

type TasksController struct {
	App *app.Context
}

// Create adds a task and returns its id immediately
func (ctrl *TasksController) Create(c *echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	id, err := ctrl.App.Engine.AddTask(req.Source)
	if err != nil {
		return controlError(err)
	}

	return c.JSON(http.StatusCreated, CreateTaskResponse{ID: id})
}

func (ctrl *TasksController) List(c *echo.Context) error {
	return c.JSON(http.StatusOK, ctrl.App.Engine.Snapshots())
}

func (ctrl *TasksController) Get(c *echo.Context) error {
	id, err := domain.ParseTaskID(c.Param("id"))
	if err != nil {
		return controlError(err)
	}

	snap, err := ctrl.App.Engine.Snapshot(id)
	if err != nil {
		return controlError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (ctrl *TasksController) Pause(c *echo.Context) error {
	return ctrl.control(c, ctrl.App.Engine.Pause)
}

func (ctrl *TasksController) Resume(c *echo.Context) error {
	return ctrl.control(c, ctrl.App.Engine.Resume)
}

func (ctrl *TasksController) Cancel(c *echo.Context) error {
	return ctrl.control(c, ctrl.App.Engine.Cancel)
}

// control applies a fire-and-forget intent and reports accept/reject
func (ctrl *TasksController) control(c *echo.Context, op func(domain.TaskID) error) error {
	id, err := domain.ParseTaskID(c.Param("id"))
	if err != nil {
		return controlError(err)
	}

	if err := op(id); err != nil {
		return controlError(err)
	}

	snap, err := ctrl.App.Engine.Snapshot(id)
	if err != nil {
		return controlError(err)
	}
	return c.JSON(http.StatusAccepted, snap)
}

// Events returns retained events newer than the "after" sequence number
func (ctrl *TasksController) Events(c *echo.Context) error {
	if ctrl.App.Feed == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Event feed not enabled")
	}

	after, err := uintQuery(c, "after")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid after parameter")
	}
	limit, err := uintQuery(c, "limit")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
	}

	events := ctrl.App.Feed.Since(after, int(limit))
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

func (ctrl *TasksController) Progress(c *echo.Context) error {
	return c.JSON(http.StatusOK, ctrl.App.Engine.OverallProgress())
}

func (ctrl *TasksController) History(c *echo.Context) error {
	if ctrl.App.History == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Journal not configured")
	}

	limit, err := uintQuery(c, "limit")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
	}

	outcomes, err := ctrl.App.History.ListOutcomes(c.Request().Context(), int(limit))
	if err != nil {
		ctrl.App.Logger.Error("History lookup failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read journal")
	}
	if outcomes == nil {
		outcomes = []domain.Outcome{}
	}
	return c.JSON(http.StatusOK, outcomes)
}

// controlError maps engine errors onto HTTP statuses
func controlError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidSource):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func uintQuery(c *echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
