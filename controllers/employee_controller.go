package controllers

import (
	"net/http"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"
	"smartcart-backend/realtime"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const employeeTokenTTL = 24 * time.Hour

type EmployeeController struct {
	Employees database.EmployeeRepository
	Carts     database.CartRepository
	Hub       realtime.Broadcaster
	JWTSecret string
}

func NewEmployeeController(employees database.EmployeeRepository, carts database.CartRepository, hub realtime.Broadcaster, jwtSecret string) *EmployeeController {
	return &EmployeeController{Employees: employees, Carts: carts, Hub: hub, JWTSecret: jwtSecret}
}

// Login authenticates an employee by email and password. Unknown email
// answers 404 and a wrong password 400, both carrying the same message.
func (ec *EmployeeController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var employee models.Employee
	err := database.DB.Collection("employees").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invalid email or password"})
		} else {
			zap.L().Error("Database error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}

	claims := jwt.MapClaims{
		"id":   employee.ID.String(),
		"role": employee.Role,
		"exp":  time.Now().Add(employeeTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ec.JWTSecret))
	if err != nil {
		zap.L().Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	zap.L().Info("Employee logged in", zap.String("employee_id", employee.ID.String()), zap.String("role", employee.Role))
	c.JSON(http.StatusOK, gin.H{"token": token, "employee": employee})
}

// CreateEmployee registers a new associate or admin account.
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Role != models.RoleAdmin && req.Role != models.RoleAssociate {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Role must be admin or associate"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create employee"})
		return
	}

	employee := models.Employee{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          req.Role,
		VerifiedCarts: []models.VerifiedCartRef{},
		CreatedAt:     time.Now().UTC(),
	}

	_, err = database.DB.Collection("employees").InsertOne(c.Request.Context(), employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Employee with this email already exists"})
			return
		}
		zap.L().Error("Failed to insert employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create employee"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Employee created successfully", "employee": employee})
}

func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	ctx := c.Request.Context()

	cursor, err := database.DB.Collection("employees").Find(ctx, bson.M{})
	if err != nil {
		zap.L().Error("Failed to fetch employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch employees"})
		return
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err := cursor.All(ctx, &employees); err != nil {
		zap.L().Error("Failed to decode employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch employees"})
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (ec *EmployeeController) GetEmployeeByID(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid employee ID"})
		return
	}

	var employee models.Employee
	err = database.DB.Collection("employees").FindOne(c.Request.Context(), bson.M{"_id": employeeID}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		} else {
			zap.L().Error("Database error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid employee ID"})
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Role != "" {
		if req.Role != models.RoleAdmin && req.Role != models.RoleAssociate {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Role must be admin or associate"})
			return
		}
		update["role"] = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			zap.L().Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update employee"})
			return
		}
		update["password_hash"] = string(hash)
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}

	var employee models.Employee
	err = database.DB.Collection("employees").FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": employeeID},
		bson.M{"$set": update},
		mongoReturnAfter(),
	).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		} else {
			zap.L().Error("Failed to update employee", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update employee"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully", "employee": employee})
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid employee ID"})
		return
	}

	result, err := database.DB.Collection("employees").DeleteOne(c.Request.Context(), bson.M{"_id": employeeID})
	if err != nil {
		zap.L().Error("Failed to delete employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete employee"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// GetCartsForVerification lists carts waiting for an associate, with each
// cart's slot lines coalesced into a single per-product view.
func (ec *EmployeeController) GetCartsForVerification(c *gin.Context) {
	carts, err := ec.Carts.FindPendingVerification(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch verification queue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch carts"})
		return
	}
	if len(carts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No carts waiting for verification"})
		return
	}

	queue := make([]gin.H, 0, len(carts))
	for _, cart := range carts {
		queue = append(queue, gin.H{
			"cart_id":       cart.ID,
			"customer_id":   cart.CustomerID,
			"items":         cart.CombinedItems(),
			"total_amounts": cart.TotalAmounts(),
			"created_at":    cart.CreatedAt,
		})
	}

	// Dashboards on the socket get the same coalesced view as the HTTP
	// response, so they can render the queue without a follow-up fetch.
	ec.Hub.Broadcast(realtime.EventCartVerificationUpdate, queue)
	c.JSON(http.StatusOK, queue)
}

// VerifyCart marks a cart verified on behalf of the authenticated
// employee. A cart can only be verified once; a second attempt finds no
// unverified cart and returns 404.
func (ec *EmployeeController) VerifyCart(c *gin.Context) {
	cartID, err := uuid.Parse(c.Param("cartId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid cart ID"})
		return
	}
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid employee ID"})
		return
	}

	ctx := c.Request.Context()

	employee, err := ec.Employees.FindByID(ctx, employeeID)
	if err != nil {
		zap.L().Error("Failed to fetch employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch employee"})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		return
	}
	if !employee.CanVerifyCarts() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Employee is not allowed to verify carts"})
		return
	}

	cart, err := ec.Carts.MarkVerified(ctx, cartID, employeeID, time.Now().UTC())
	if err != nil {
		zap.L().Error("Failed to verify cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found or already verified"})
		return
	}

	ref := models.VerifiedCartRef{CartID: cartID, VerifiedAt: time.Now().UTC()}
	if err := ec.Employees.AppendVerifiedCart(ctx, employeeID, ref); err != nil {
		// Verification already succeeded; the audit trail entry is best effort.
		zap.L().Warn("Failed to record verified cart on employee", zap.Error(err))
	}

	ec.Hub.Broadcast(realtime.EventCartVerificationUpdate, gin.H{
		"cart_id":     cart.ID,
		"customer_id": cart.CustomerID,
		"verified":    true,
		"verified_by": employeeID,
	})

	zap.L().Info("Cart verified",
		zap.String("cart_id", cartID.String()),
		zap.String("employee_id", employeeID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "Cart verified successfully", "cart": cart})
}
