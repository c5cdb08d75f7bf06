package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"order_board/internal/models"
	"order_board/internal/notify"
	"order_board/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type APIHandler struct {
	boardService services.BoardService
	orderService services.OrderService
	stockService services.StockService
	notifier     *notify.Notifier
	boardTTL     time.Duration
}

func NewAPIHandler(
	boardService services.BoardService,
	orderService services.OrderService,
	stockService services.StockService,
	notifier *notify.Notifier,
	boardTTL time.Duration,
) *APIHandler {
	return &APIHandler{
		boardService: boardService,
		orderService: orderService,
		stockService: stockService,
		notifier:     notifier,
		boardTTL:     boardTTL,
	}
}

// Board endpoints

func (h *APIHandler) GetBoard(c *gin.Context) {
	if h.notifier != nil {
		var cached map[string][]models.Order
		if ok, err := h.notifier.GetBoardSnapshot(&cached); err == nil && ok {
			c.JSON(http.StatusOK, gin.H{"columns": cached, "cached": true})
			return
		}
	}

	columns, err := h.boardService.Columns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.notifier != nil {
		h.notifier.SetBoardSnapshot(columns, h.boardTTL)
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *APIHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		NewStatus      string `json:"new_status" binding:"required"`
		PreviousStatus string `json:"previous_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !models.ValidOrderStatus(req.NewStatus) || !models.ValidOrderStatus(req.PreviousStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	order, err := h.boardService.Move(orderID, models.OrderStatus(req.PreviousStatus), models.OrderStatus(req.NewStatus))
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) AdvanceOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.boardService.Advance(orderID)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) StepBackOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.boardService.StepBack(orderID)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.boardService.Cancel(orderID)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) ReorderColumn(c *gin.Context) {
	var req struct {
		Status   string `json:"status" binding:"required"`
		OrderIDs []uint `json:"order_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	if err := h.boardService.Reorder(models.OrderStatus(req.Status), req.OrderIDs); err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reordered"})
}

func (h *APIHandler) MoveCard(c *gin.Context) {
	var req struct {
		OrderID   uint   `json:"order_id" binding:"required"`
		From      string `json:"from" binding:"required"`
		To        string `json:"to" binding:"required"`
		DropIndex *int   `json:"drop_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !models.ValidOrderStatus(req.From) || !models.ValidOrderStatus(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	dropIndex := -1
	if req.DropIndex != nil {
		dropIndex = *req.DropIndex
	}
	order, err := h.boardService.MoveCard(req.OrderID, models.OrderStatus(req.From), models.OrderStatus(req.To), dropIndex)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Order endpoints

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerName    string     `json:"customer_name" binding:"required"`
		CustomerPhone   string     `json:"customer_phone"`
		DeliveryDate    *time.Time `json:"delivery_date"`
		DeliveryAddress string     `json:"delivery_address"`
		Notes           string     `json:"notes"`
		Items           []struct {
			ProductID uint            `json:"product_id" binding:"required"`
			Quantity  int             `json:"quantity" binding:"required"`
			UnitPrice decimal.Decimal `json:"unit_price"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryDate:    req.DeliveryDate,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := h.orderService.CreateOrder(order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) GetOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) DuplicateOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}
	duplicate, missing, err := h.orderService.DuplicateOrder(orderID)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, gin.H{
				"error":               "Insufficient stock",
				"missing_ingredients": missing,
			})
			return
		}
		if errors.Is(err, models.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, duplicate)
}

// Stock endpoints

func (h *APIHandler) GetReconciliation(c *gin.Context) {
	analyses, err := h.stockService.Reconcile()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyses)
}

func (h *APIHandler) GetShoppingList(c *gin.Context) {
	missing, err := h.stockService.ShoppingList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, missing)
}

func (h *APIHandler) CreateStockMovement(c *gin.Context) {
	var req struct {
		IngredientID uint            `json:"ingredient_id" binding:"required"`
		Type         string          `json:"type" binding:"required"`
		Quantity     decimal.Decimal `json:"quantity" binding:"required"`
		Reason       string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	movement, err := h.stockService.RecordMovement(req.IngredientID, req.Type, req.Quantity, req.Reason)
	if err != nil {
		if errors.Is(err, models.ErrIngredientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ingredient not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *APIHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.stockService.GetIngredients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *APIHandler) CreateIngredient(c *gin.Context) {
	var req struct {
		Name        string          `json:"name" binding:"required"`
		Unit        string          `json:"unit" binding:"required"`
		Quantity    decimal.Decimal `json:"quantity"`
		PackageSize decimal.Decimal `json:"package_size"`
		PackageUnit string          `json:"package_unit"`
		PackageCost decimal.Decimal `json:"package_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ingredient := &models.Ingredient{
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		PackageSize: req.PackageSize,
		PackageUnit: req.PackageUnit,
		PackageCost: req.PackageCost,
	}
	if err := h.stockService.CreateIngredient(ingredient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *APIHandler) GetIngredientMovements(c *gin.Context) {
	ingredientID, ok := parseID(c)
	if !ok {
		return
	}
	movements, err := h.stockService.GetMovements(ingredientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *APIHandler) GetProducts(c *gin.Context) {
	products, err := h.stockService.GetProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrInvalidReorder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
