package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imageResizer/api/dto"
	"imageResizer/api/middleware"
	"imageResizer/api/repository"
	"imageResizer/api/service"
	"imageResizer/api/validation"
)

type TaskService interface {
	CreateTask(ctx context.Context, traceID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*dto.TaskResponse, error)
}

type TaskHandler struct {
	service TaskService
	logger  *zap.Logger
	// exposeErrors returns internal error messages on 5xx responses.
	exposeErrors bool
}

func NewTaskHandler(service TaskService, logger *zap.Logger, exposeErrors bool) *TaskHandler {
	return &TaskHandler{
		service:      service,
		logger:       logger,
		exposeErrors: exposeErrors,
	}
}

func RegisterRoutes(r *gin.Engine, h *TaskHandler) {
	r.GET("/health", h.Health)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/:taskId", h.Get)
}

func (h *TaskHandler) Create(c *gin.Context) {
	traceID := middleware.GetTraceID(c.Request.Context())

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "source is required", err, traceID)
		return
	}

	resp, err := h.service.CreateTask(c.Request.Context(), traceID, &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.handleError(c, http.StatusBadRequest, err.Error(), err, traceID)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to create task", err, traceID)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TaskHandler) Get(c *gin.Context) {
	traceID := middleware.GetTraceID(c.Request.Context())

	taskID := c.Param("taskId")
	if err := validation.ValidateTaskID(taskID); err != nil {
		h.handleError(c, http.StatusBadRequest, err.Error(), err, traceID)
		return
	}

	resp, err := h.service.GetTask(c.Request.Context(), taskID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			h.handleError(c, http.StatusNotFound, "Task not found", err, traceID)
		case errors.Is(err, service.ErrValidation):
			h.handleError(c, http.StatusBadRequest, err.Error(), err, traceID)
		default:
			h.handleError(c, http.StatusInternalServerError, "Failed to get task", err, traceID)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TaskHandler) handleError(c *gin.Context, status int, message string, err error, traceID string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(message,
			zap.String("trace_id", traceID),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if h.exposeErrors {
			message = err.Error()
		} else {
			message = "Internal Server Error"
		}
	} else {
		h.logger.Debug(message,
			zap.String("trace_id", traceID),
			zap.Error(err),
		)
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}
