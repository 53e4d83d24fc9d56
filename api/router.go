package api

import (
	"net/http"

	"pos_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitRoutes registers the sales, expense and report endpoints on the given
// Gin engine.
func InitRoutes(e *gin.Engine, salesService *sales.Service, logger *zap.Logger) {
	salesHandler := NewSalesHandler(salesService, logger)

	e.POST("/sales", salesHandler.handleCreateSale)
	e.GET("/sales", salesHandler.handleSearchSales)
	e.GET("/sales/:id", salesHandler.handleGetSale)

	e.POST("/expenses", salesHandler.handleCreateExpense)
	e.GET("/expenses", salesHandler.handleListExpenses)

	reports := e.Group("/reports")
	reports.GET("/cashiers", salesHandler.handleCashierReport)
	reports.GET("/expenses", salesHandler.handleExpenseReport)
	reports.GET("/expenses/categories", salesHandler.handleExpenseCategoryReport)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
