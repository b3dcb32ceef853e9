package routes

import (
	"smartcart-backend/controllers"
	"smartcart-backend/database"
	"smartcart-backend/middleware"
	"smartcart-backend/models"
	"smartcart-backend/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Controllers struct {
	QR       *controllers.QRController
	Customer *controllers.CustomerController
	Cart     *controllers.CartController
	Product  *controllers.ProductController
	Employee *controllers.EmployeeController
	Payment  *controllers.PaymentController
	Order    *controllers.OrderController
}

// RegisterRoutes wires every HTTP endpoint plus the websocket entry point.
// Kiosk-facing routes are open; staff and admin routes sit behind JWT.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, hub *realtime.Hub, qrStore database.QRStore, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// New connections get the current check-in QR immediately so kiosks
	// never render a stale code while waiting for the next rotation.
	r.GET("/ws", func(c *gin.Context) {
		var initial []realtime.Event
		if code, err := qrStore.Current(c.Request.Context()); err == nil && code != "" {
			initial = append(initial, realtime.Event{Type: realtime.EventQRUpdated, Data: gin.H{"qrCode": code}})
		} else if err != nil {
			zap.L().Warn("Failed to load current QR for new socket", zap.Error(err))
		}
		hub.ServeWS(c, initial)
	})

	authed := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleAssociate)
	loginLimit := middleware.RateLimit(1, 5)

	qr := r.Group("/qrcode")
	{
		qr.POST("/update-qr", ctrl.QR.UpdateQR)
		qr.POST("/scan-qr", ctrl.QR.ScanQR)
	}

	customer := r.Group("/customer")
	{
		customer.POST("/checkin/:qrCode", loginLimit, ctrl.Customer.Checkin)
		customer.GET("", authed, adminOnly, ctrl.Customer.GetAllCustomers)
		customer.GET("/:id", authed, adminOnly, ctrl.Customer.GetCustomerByID)
		customer.PUT("/:id", authed, adminOnly, ctrl.Customer.UpdateCustomer)
		customer.DELETE("/:id", authed, adminOnly, ctrl.Customer.DeleteCustomer)
	}

	cart := r.Group("/cart")
	{
		cart.GET("/:customer_id", ctrl.Cart.GetCart)
		cart.GET("/:customer_id/:cart_number/items", ctrl.Cart.GetItemsByNumber)
		cart.POST("/:customer_id/:cart_number/items", ctrl.Cart.AddItem)
		cart.PUT("/:customer_id/:cart_number/items/:item_id", ctrl.Cart.UpdateItemQuantity)
		cart.DELETE("/:customer_id/:cart_number/items/:item_id", ctrl.Cart.RemoveItem)
		cart.DELETE("/:customer_id/:cart_number", ctrl.Cart.DeleteCart)
		cart.PUT("/:customer_id/request-verification", ctrl.Cart.RequestVerification)
		cart.POST("/:customer_id/add-multiple-items", ctrl.Cart.AddMultipleItems)
	}

	product := r.Group("/product")
	{
		product.GET("", ctrl.Product.GetAllProducts)
		product.GET("/:id", ctrl.Product.GetProductByID)
		product.GET("/barcode/:barcode", ctrl.Product.GetProductByBarcode)
		product.GET("/recommendations", ctrl.Product.GetRecommendations)
		product.POST("", authed, adminOnly, ctrl.Product.CreateProduct)
		product.PUT("/:id", authed, adminOnly, ctrl.Product.UpdateProduct)
		product.DELETE("/:id", authed, adminOnly, ctrl.Product.DeleteProduct)
		product.POST("/:id/image", authed, adminOnly, ctrl.Product.UploadProductImage)
	}

	employee := r.Group("/employee")
	{
		employee.POST("/login", loginLimit, ctrl.Employee.Login)
		employee.POST("", authed, adminOnly, ctrl.Employee.CreateEmployee)
		employee.GET("", authed, adminOnly, ctrl.Employee.GetAllEmployees)
		employee.GET("/carts-for-verification", authed, staffOnly, ctrl.Employee.GetCartsForVerification)
		employee.GET("/:id", authed, adminOnly, ctrl.Employee.GetEmployeeByID)
		employee.PUT("/:id", authed, adminOnly, ctrl.Employee.UpdateEmployee)
		employee.DELETE("/:id", authed, adminOnly, ctrl.Employee.DeleteEmployee)
		employee.PUT("/:id/verify/:cartId", authed, staffOnly, ctrl.Employee.VerifyCart)
	}

	payment := r.Group("/payment")
	{
		payment.POST("/create-order", ctrl.Payment.CreateOrder)
		payment.POST("/verify-payment", ctrl.Payment.VerifyPayment)
		payment.GET("", authed, adminOnly, ctrl.Payment.GetPayments)
	}

	order := r.Group("/order")
	{
		order.POST("/create", ctrl.Order.CreateOrder)
		order.GET("", authed, adminOnly, ctrl.Order.GetAllOrders)
		order.GET("/customer", authed, adminOnly, ctrl.Order.GetCustomersData)
		order.GET("/:orderId", authed, adminOnly, ctrl.Order.GetOrderDetails)
	}
}
