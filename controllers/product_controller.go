package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"
	"smartcart-backend/services"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const barcodeCacheTTL = 5 * time.Minute

type ProductController struct {
	Redis       *redis.Client
	Recommender *services.RecommenderClient
}

func NewProductController(rdb *redis.Client, recommender *services.RecommenderClient) *ProductController {
	return &ProductController{Redis: rdb, Recommender: recommender}
}

func barcodeCacheKey(barcode string) string {
	return "product:barcode:" + barcode
}

// CreateProduct registers a new catalog item. Barcodes are unique; a
// duplicate insert surfaces as 409.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		Name          string  `json:"name" binding:"required"`
		Description   string  `json:"description"`
		Price         float64 `json:"price" binding:"required,gt=0"`
		StockQuantity int     `json:"stock_quantity" binding:"min=0"`
		Category      string  `json:"category"`
		SubCategory   string  `json:"sub_category"`
		Barcode       string  `json:"barcode" binding:"required"`
		ImageURL      string  `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	now := time.Now().UTC()
	product := models.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		Barcode:       req.Barcode,
		ImageURL:      req.ImageURL,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := database.DB.Collection("products").InsertOne(c.Request.Context(), product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Product with this barcode already exists"})
			return
		}
		zap.L().Error("Failed to insert product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

func (pc *ProductController) GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	cursor, err := database.DB.Collection("products").Find(ctx, filter)
	if err != nil {
		zap.L().Error("Failed to fetch products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		zap.L().Error("Failed to decode products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			zap.L().Error("Database error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductByBarcode is the hot path for in-store scanners, so results
// are cached in Redis for a short window.
func (pc *ProductController) GetProductByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Barcode is required"})
		return
	}

	ctx := c.Request.Context()

	if pc.Redis != nil {
		if cached, err := pc.Redis.Get(ctx, barcodeCacheKey(barcode)).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				c.JSON(http.StatusOK, product)
				return
			}
		} else if err != redis.Nil {
			zap.L().Warn("Redis lookup failed", zap.Error(err))
		}
	}

	var product models.Product
	err := database.DB.Collection("products").FindOne(ctx, bson.M{"barcode": barcode}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			zap.L().Error("Database error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	if pc.Redis != nil {
		if payload, err := json.Marshal(product); err == nil {
			if err := pc.Redis.Set(ctx, barcodeCacheKey(barcode), payload, barcodeCacheTTL).Err(); err != nil {
				zap.L().Warn("Failed to cache product", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}

	update := bson.M{}
	for _, field := range []string{"name", "description", "price", "stock_quantity", "category", "sub_category", "image_url", "is_active"} {
		if value, ok := req[field]; ok {
			update[field] = value
		}
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No updatable fields provided"})
		return
	}
	update["updated_at"] = time.Now().UTC()

	ctx := c.Request.Context()

	var product models.Product
	err = database.DB.Collection("products").FindOneAndUpdate(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": update},
		mongoReturnAfter(),
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			zap.L().Error("Failed to update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		}
		return
	}

	pc.invalidateBarcodeCache(ctx, product.Barcode)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	ctx := c.Request.Context()

	var product models.Product
	err = database.DB.Collection("products").FindOneAndDelete(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			zap.L().Error("Failed to delete product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		}
		return
	}

	pc.invalidateBarcodeCache(ctx, product.Barcode)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImage pushes a product photo to Cloudinary and stores the
// resulting secure URL on the product.
func (pc *ProductController) UploadProductImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		zap.L().Warn("Failed to open uploaded image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read image"})
		return
	}
	defer file.Close()

	cld, err := cloudinary.New()
	if err != nil {
		zap.L().Error("Cloudinary init failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image upload service failed"})
		return
	}
	cld.Config.URL.Secure = true

	ctx := c.Request.Context()
	uploadResp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:  fmt.Sprintf("product_img_%s_%d", productID, time.Now().Unix()),
		Folder:    "smartcart/products",
		Overwrite: true,
	})
	if err != nil || uploadResp == nil || uploadResp.SecureURL == "" {
		zap.L().Error("Image upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		return
	}

	var product models.Product
	err = database.DB.Collection("products").FindOneAndUpdate(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"image_url": uploadResp.SecureURL, "updated_at": time.Now().UTC()}},
		mongoReturnAfter(),
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			zap.L().Error("Failed to save image URL", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save image URL"})
		}
		return
	}

	pc.invalidateBarcodeCache(ctx, product.Barcode)
	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully", "imageUrl": uploadResp.SecureURL})
}

// GetRecommendations proxies the cart's barcodes to the recommender
// service and relays its payload untouched.
func (pc *ProductController) GetRecommendations(c *gin.Context) {
	raw := c.Query("barcodes")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "barcodes query parameter is required"})
		return
	}

	barcodes := []string{}
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			barcodes = append(barcodes, b)
		}
	}
	if len(barcodes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "barcodes query parameter is required"})
		return
	}

	recommendations, err := pc.Recommender.Recommend(c.Request.Context(), barcodes, 5)
	if err != nil {
		zap.L().Error("Recommender request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "Recommendation service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

func (pc *ProductController) invalidateBarcodeCache(ctx context.Context, barcode string) {
	if pc.Redis == nil || barcode == "" {
		return
	}
	if err := pc.Redis.Del(ctx, barcodeCacheKey(barcode)).Err(); err != nil {
		zap.L().Warn("Failed to invalidate product cache", zap.String("barcode", barcode), zap.Error(err))
	}
}
