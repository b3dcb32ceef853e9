package controllers

import (
	"math/rand"
	"net/http"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type OrderController struct {
	Carts    database.CartRepository
	Products database.ProductRepository
	Orders   database.OrderRepository
}

func NewOrderController(carts database.CartRepository, products database.ProductRepository, orders database.OrderRepository) *OrderController {
	return &OrderController{Carts: carts, Products: products, Orders: orders}
}

// CreateOrder turns a verified cart into an order. The cart is consumed:
// its lines are snapshotted onto the order, the cart document is removed,
// and catalog counters are bumped per line.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerID uuid.UUID `json:"customer_id" binding:"required"`
		PaymentID  string    `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()

	cart, err := oc.Carts.FindVerifiedByCustomer(ctx, req.CustomerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Verified cart not found"})
		return
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			CartNumber:     line.CartNumber,
			ProductBarcode: line.Barcode,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			Price:          line.Price,
		})
	}

	order := models.Order{
		ID:                 uuid.New(),
		CustomerID:         req.CustomerID,
		OrderItems:         items,
		TotalAmountPerCart: cart.TotalAmounts(),
		PaymentID:          req.PaymentID,
		CreatedAt:          time.Now().UTC(),
	}

	if err := oc.Orders.Create(ctx, &order); err != nil {
		zap.L().Error("Failed to insert order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}

	if err := oc.Carts.DeleteByID(ctx, cart.ID); err != nil {
		// The order exists; a leftover cart is recoverable, a lost order is not.
		zap.L().Warn("Failed to delete cart after order", zap.String("cart_id", cart.ID.String()), zap.Error(err))
	}

	for _, line := range items {
		if err := oc.Products.RecordSale(ctx, line.ProductBarcode, line.Quantity); err != nil {
			zap.L().Warn("Failed to record sale",
				zap.String("barcode", line.ProductBarcode), zap.Error(err))
		}
	}

	zap.L().Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", req.CustomerID.String()))
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

var timeRanges = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// GetAllOrders returns the daily sales series for the dashboard chart. Days
// without orders appear with zero revenue so the x axis stays continuous.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	days, ok := timeRanges[c.DefaultQuery("timeRange", "7d")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "timeRange must be one of 7d, 30d, 90d"})
		return
	}

	ctx := c.Request.Context()
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"total": bson.M{"$sum": bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$total_amount_per_cart.1", 0}},
				bson.M{"$ifNull": bson.A{"$total_amount_per_cart.2", 0}},
				bson.M{"$ifNull": bson.A{"$total_amount_per_cart.3", 0}},
			}}},
		}}},
	}

	cursor, err := database.DB.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		zap.L().Error("Sales aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sales data"})
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date  string  `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		zap.L().Error("Failed to decode sales data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sales data"})
		return
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Date] = row.Total
	}

	c.JSON(http.StatusOK, gin.H{"salesData": buildSalesSeries(totals, start, days)})
}

// buildSalesSeries fills the window day by day, attaching a synthetic
// forecast within ±10% of the actual value.
func buildSalesSeries(totals map[string]float64, start time.Time, days int) []models.SalesPoint {
	series := make([]models.SalesPoint, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		actual := totals[date]
		series = append(series, models.SalesPoint{
			Date:      date,
			Actual:    actual,
			Predicted: actual * (1 + rand.Float64()*0.2 - 0.1),
		})
	}
	return series
}

// GetCustomersData serves the dashboard's monthly footfall widget. The
// figures are a fixed demo series until checkin history is aggregated.
func (oc *OrderController) GetCustomersData(c *gin.Context) {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	counts := []int{120, 135, 150, 170, 160, 185, 210, 205, 195, 220, 240, 260}

	data := make([]gin.H, 0, len(months))
	for i, month := range months {
		data = append(data, gin.H{"month": month, "customers": counts[i]})
	}

	c.JSON(http.StatusOK, gin.H{"customersData": data})
}

func (oc *OrderController) GetOrderDetails(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
		return
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(c.Request.Context(), bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		} else {
			zap.L().Error("Database error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
