package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"
	"smartcart-backend/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartController struct {
	Repo     database.CartRepository
	Products database.ProductRepository
	Hub      realtime.Broadcaster
}

func NewCartController(repo database.CartRepository, products database.ProductRepository, hub realtime.Broadcaster) *CartController {
	return &CartController{Repo: repo, Products: products, Hub: hub}
}

// GetCart returns the customer's cart with all slots.
func (cc *CartController) GetCart(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	cart, err := cc.Repo.GetByCustomer(c.Request.Context(), customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem adds a single product to one cart slot, merging into an existing
// (product, slot) line when one exists.
func (cc *CartController) AddItem(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}
	cartNumber, ok := parseCartNumber(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()

	product, err := cc.Products.FindByID(ctx, req.ProductID)
	if err != nil {
		zap.L().Error("Failed to look up product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to look up product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	cart, err := cc.Repo.GetByCustomer(ctx, customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	mergeItem(cart, product, cartNumber, req.Quantity)

	if err := cc.Repo.Save(ctx, cart); err != nil {
		zap.L().Error("Failed to save cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusCreated, cart)
}

// UpdateItemQuantity sets the quantity for one line.
func (cc *CartController) UpdateItemQuantity(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be zero or greater"})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.Repo.GetByCustomer(ctx, customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	}

	if err := cc.Repo.Save(ctx, cart); err != nil {
		zap.L().Error("Failed to save cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem deletes one line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.Repo.GetByCustomer(ctx, customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	}
	cart.Items = items

	if err := cc.Repo.Save(ctx, cart); err != nil {
		zap.L().Error("Failed to save cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// GetItemsByNumber returns the lines of a single cart slot plus its total.
func (cc *CartController) GetItemsByNumber(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}
	cartNumber, ok := parseCartNumber(c)
	if !ok {
		return
	}

	cart, err := cc.Repo.GetByCustomer(c.Request.Context(), customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	items := []models.CartItem{}
	for _, item := range cart.Items {
		if item.CartNumber == cartNumber {
			items = append(items, item)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_number":  cartNumber,
		"items":        items,
		"total_amount": cart.TotalAmounts()[cartNumber],
	})
}

// DeleteCart removes the customer's cart document entirely.
func (cc *CartController) DeleteCart(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	deleted, err := cc.Repo.DeleteByCustomer(c.Request.Context(), customerID)
	if err != nil {
		zap.L().Error("Failed to delete cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete cart"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart deleted successfully"})
}

// RequestVerification flags the cart for the associate queue and announces
// it to every connected dashboard.
func (cc *CartController) RequestVerification(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	cart, err := cc.Repo.RequestVerification(c.Request.Context(), customerID)
	if err != nil {
		zap.L().Error("Failed to request verification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to request verification"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found or already verified"})
		return
	}

	cc.Hub.Broadcast(realtime.EventNewCartForVerification, cart)
	c.JSON(http.StatusOK, gin.H{"message": "Verification requested successfully"})
}

// AddMultipleItems applies a batch of scans in one document write. Any
// barcode that fails to resolve aborts the whole batch before anything is
// persisted; a resubmitted batch will merge on top of the earlier one, so
// clients must not blindly retry on success.
func (cc *CartController) AddMultipleItems(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	var req struct {
		CartItems []struct {
			Barcode    string `json:"barcode" binding:"required"`
			CartNumber int    `json:"cart_number" binding:"required"`
			Quantity   int    `json:"quantity" binding:"required,min=1"`
		} `json:"cart_items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.Repo.GetByCustomer(ctx, customerID)
	if err != nil {
		zap.L().Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}

	for _, item := range req.CartItems {
		if item.CartNumber < models.MinCartNumber || item.CartNumber > models.MaxCartNumber {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Invalid cart number: %d", item.CartNumber)})
			return
		}

		product, err := cc.Products.FindByBarcode(ctx, item.Barcode)
		if err != nil {
			zap.L().Error("Failed to look up product", zap.String("barcode", item.Barcode), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to look up product"})
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Product not found for barcode: %s", item.Barcode)})
			return
		}

		mergeItem(cart, product, item.CartNumber, item.Quantity)
	}

	cart.WantsVerification = true

	if err := cc.Repo.Save(ctx, cart); err != nil {
		zap.L().Error("Failed to save cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save cart"})
		return
	}

	cc.Hub.Broadcast(realtime.EventNewCartForVerification, cart)
	c.JSON(http.StatusOK, gin.H{"cart_id": cart.ID})
}

// mergeItem folds a scan into the cart: same (product, slot) lines sum
// their quantities instead of adding a duplicate row.
func mergeItem(cart *models.Cart, product *models.Product, cartNumber, quantity int) {
	if i := cart.FindItem(product.ID, cartNumber); i >= 0 {
		cart.Items[i].Quantity += quantity
		return
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:          uuid.New(),
		CartNumber:  cartNumber,
		ProductID:   product.ID,
		Barcode:     product.Barcode,
		ProductName: product.Name,
		ImageURL:    product.ImageURL,
		Price:       product.Price,
		Quantity:    quantity,
		AddedAt:     time.Now().UTC(),
	})
}

func parseCartNumber(c *gin.Context) (int, bool) {
	cartNumber, err := strconv.Atoi(c.Param("cart_number"))
	if err != nil || cartNumber < models.MinCartNumber || cartNumber > models.MaxCartNumber {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cart number must be between 1 and 3"})
		return 0, false
	}
	return cartNumber, true
}
