package controllers

import (
	"net/http"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Session tokens issued at check-in cover one store visit.
const checkinTokenTTL = 5 * time.Hour

type CustomerController struct {
	Customers database.CustomerRepository
	Carts     database.CartRepository
	JWTSecret string
}

func NewCustomerController(customers database.CustomerRepository, carts database.CartRepository, jwtSecret string) *CustomerController {
	return &CustomerController{Customers: customers, Carts: carts, JWTSecret: jwtSecret}
}

// Checkin registers a customer after a successful QR scan and opens their
// empty cart in the same request. Returns both plus a session token.
func (cc *CustomerController) Checkin(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()
	customer := models.Customer{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		QRCode:    c.Param("qrCode"),
		CreatedAt: now,
	}

	if err := cc.Customers.Create(ctx, &customer); err != nil {
		zap.L().Error("Failed to create customer", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create customer"})
		return
	}

	cart := models.Cart{
		ID:                uuid.New(),
		CustomerID:        customer.ID,
		Items:             []models.CartItem{},
		WantsVerification: false,
		Verified:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := cc.Carts.Create(ctx, &cart); err != nil {
		zap.L().Error("Failed to create cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create cart"})
		return
	}

	claims := jwt.MapClaims{
		"customer_id": customer.ID.String(),
		"exp":         now.Add(checkinTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cc.JWTSecret))
	if err != nil {
		zap.L().Error("Failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "cart": cart, "token": token})
}

// GetAllCustomers lists every customer for the admin dashboard.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	cursor, err := database.DB.Collection("customers").Find(c.Request.Context(), bson.M{})
	if err != nil {
		zap.L().Error("Failed to list customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch customers"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var customers []models.Customer
	if err := cursor.All(c.Request.Context(), &customers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	var customer models.Customer
	err = database.DB.Collection("customers").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	if err != nil {
		zap.L().Error("Failed to fetch customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No update fields provided"})
		return
	}
	delete(updates, "_id")

	result, err := database.DB.Collection("customers").UpdateOne(c.Request.Context(),
		bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		zap.L().Error("Failed to update customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update customer"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	result, err := database.DB.Collection("customers").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		zap.L().Error("Failed to delete customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete customer"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
