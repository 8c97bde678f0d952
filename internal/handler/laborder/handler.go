package laborder

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/handler"
	"github.com/mediplace/lab-api/internal/middleware"
	"github.com/mediplace/lab-api/internal/model"
	"github.com/mediplace/lab-api/pkg/httputil"
	"github.com/mediplace/lab-api/pkg/validator"
)

// Service is the lifecycle surface the handler depends on.
type Service interface {
	GetOrder(ctx context.Context, actor *model.Actor, orderID uuid.UUID) (*model.LabOrder, error)
	ListOrders(ctx context.Context, actor *model.Actor, status *model.OrderStatus) ([]*model.LabOrder, error)
	Transition(ctx context.Context, orderID uuid.UUID, action model.OrderAction) (*model.LabOrder, error)
	SubmitResults(ctx context.Context, laboratoryID, orderID uuid.UUID, req *model.SubmitResultsRequest) (*model.LabOrder, error)
	GetOrderResults(ctx context.Context, actor *model.Actor, orderID uuid.UUID) (*model.OrderResultsResponse, error)
	GetStatistics(ctx context.Context, filter *model.StatisticsFilter) (*model.OrderStatistics, error)
}

type Handler struct {
	service Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service Service, auth *middleware.AuthMiddleware) *Handler {
	validator.Register()
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/lab-orders")
	orders.Use(h.auth.Authenticate())

	orders.GET("/statistics", h.GetStatistics)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/results", h.auth.RequireRoles(model.RolePatient, model.RoleDoctor), h.GetOrderResults)
	orders.POST("/:id/results", h.auth.RequireRoles(model.RoleLaboratory), h.SubmitResults)

	orders.PUT("/:id/confirm", h.transition(model.ActionConfirm))
	orders.PUT("/:id/sample-collected", h.transition(model.ActionMarkSampleCollected))
	orders.PUT("/:id/in-progress", h.transition(model.ActionMarkInProgress))
	orders.PUT("/:id/paid", h.transition(model.ActionMarkPaid))
	orders.PUT("/:id/complete", h.transition(model.ActionComplete))
}

func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	var status *model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := model.OrderStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		status = &s
	}

	orders, err := h.service.ListOrders(c.Request.Context(), actor, status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, orders)
}

func (h *Handler) GetOrderResults(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	results, err := h.service.GetOrderResults(c.Request.Context(), actor, orderID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, results)
}

func (h *Handler) SubmitResults(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.SubmitResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// The owning laboratory comes from the verified token, never from
	// the request body.
	order, err := h.service.SubmitResults(c.Request.Context(), actor.ID, orderID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, order)
}

func (h *Handler) transition(action model.OrderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
			return
		}

		order, err := h.service.Transition(c.Request.Context(), orderID, action)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		httputil.RespondWithSuccess(c, order)
	}
}

func (h *Handler) GetStatistics(c *gin.Context) {
	filter := &model.StatisticsFilter{}

	if raw := c.Query("laboratory_id"); raw != "" {
		labID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid laboratory ID"))
			return
		}
		filter.LaboratoryID = &labID
	}

	if raw := c.Query("start_date"); raw != "" {
		start, err := parseDate(raw, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start date"))
			return
		}
		filter.StartDate = &start
	}

	if raw := c.Query("end_date"); raw != "" {
		end, err := parseDate(raw, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end date"))
			return
		}
		filter.EndDate = &end
	}

	stats, err := h.service.GetStatistics(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}

// parseDate accepts a calendar date or an RFC3339 timestamp. Calendar
// end dates cover the whole day so both bounds stay inclusive.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
