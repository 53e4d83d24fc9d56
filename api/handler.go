package api

import (
	"errors"
	"net/http"

	"pos_reports/internal/report"
	"pos_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// salesHandler holds the sales service and implements HTTP handlers for sales,
// expenses and reports.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req sales.NewSale
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err), zap.String("cashier_id", req.CashierID))
		switch {
		case errors.Is(err, sales.ErrInvalidSale):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sales.ErrUserNotFound):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cashier not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sale"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	sale, err := h.salesService.GetSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		h.logger.Error("failed to read sale", zap.String("sale_id", ctx.Param("id")), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read sale"})
		return
	}

	ctx.JSON(http.StatusOK, sale)
}

func (h *salesHandler) handleSearchSales(ctx *gin.Context) {
	cashierID := ctx.Query("cashier_id")
	method := ctx.Query("payment_method")

	results, metadata, err := h.salesService.SearchSales(ctx.Request.Context(), cashierID, method)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidSale) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("error searching sales",
			zap.String("cashier_filter", cashierID),
			zap.String("payment_method_filter", method),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search sales"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results, "metadata": metadata})
}

func (h *salesHandler) handleCreateExpense(ctx *gin.Context) {
	var req sales.NewExpense
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	expense, err := h.salesService.CreateExpense(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidExpense) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to create expense", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}

	ctx.JSON(http.StatusCreated, expense)
}

func (h *salesHandler) handleListExpenses(ctx *gin.Context) {
	expenses, err := h.salesService.ListExpenses(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to list expenses", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list expenses"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": expenses})
}

// handleCashierReport handles GET /reports/cashiers?period=&cashier=.
func (h *salesHandler) handleCashierReport(ctx *gin.Context) {
	period, ok := h.period(ctx)
	if !ok {
		return
	}

	rep, err := h.salesService.CashierReport(ctx.Request.Context(), period, ctx.Query("cashier"))
	if err != nil {
		h.logger.Error("failed to build cashier report", zap.String("period", string(period)), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	ctx.JSON(http.StatusOK, rep)
}

func (h *salesHandler) handleExpenseReport(ctx *gin.Context) {
	period, ok := h.period(ctx)
	if !ok {
		return
	}
	groupBy, err := report.ParseExpenseGrouping(ctx.Query("group_by"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.salesService.ExpenseReport(ctx.Request.Context(), period, ctx.Query("cashier"), groupBy)
	if err != nil {
		h.logger.Error("failed to build expense report", zap.String("period", string(period)), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	ctx.JSON(http.StatusOK, rep)
}

func (h *salesHandler) handleExpenseCategoryReport(ctx *gin.Context) {
	period, ok := h.period(ctx)
	if !ok {
		return
	}

	rep, err := h.salesService.ExpenseCategoryReport(ctx.Request.Context(), period)
	if err != nil {
		h.logger.Error("failed to build category report", zap.String("period", string(period)), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	ctx.JSON(http.StatusOK, rep)
}

func (h *salesHandler) period(ctx *gin.Context) (report.Period, bool) {
	period, err := report.ParsePeriod(ctx.Query("period"))
	if err != nil {
		h.logger.Warn("invalid period filter provided", zap.String("period", ctx.Query("period")))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return period, true
}
