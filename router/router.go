package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/controllers"
	"github.com/freshpress/juicebar-app/middlewares"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/services"
	"github.com/freshpress/juicebar-app/ws"
)

func SetupRouter(db *gorm.DB, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	orderRepo := repository.NewOrderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	userRepo := repository.NewUserRepository(db)

	razorpay := services.NewRazorpayServiceFromEnv()
	orderService := services.NewOrderService(orderRepo, hub)

	menuCtrl := controllers.NewMenuController(catalogRepo)
	orderCtrl := controllers.NewOrderController(orderService, orderRepo)
	paymentCtrl := controllers.NewPaymentController(razorpay, orderService, orderRepo)
	adminCtrl := controllers.NewAdminController(orderService, orderRepo)
	userCtrl := controllers.NewUserController(userRepo)
	wsCtrl := controllers.NewWSController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Menu catalog
	r.GET("/menu/items", menuCtrl.GetMenuItems)
	r.GET("/menu/sizes", menuCtrl.GetSizes)
	r.GET("/menu/add-ons", menuCtrl.GetAddOns)

	// Orders (guest checkout, public tracking lookup)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_number", orderCtrl.GetOrderByNumber)

	// Payments
	payments := r.Group("/payments")
	payments.Use(middlewares.NewStrictRateLimiter())
	{
		payments.POST("/order", paymentCtrl.CreatePaymentOrder)
		payments.POST("/verify", paymentCtrl.VerifyPayment)
	}

	// Real-time order events; channel membership is by join message only
	r.GET("/ws", wsCtrl.OrderEvents)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	me := r.Group("/my")
	me.Use(middlewares.AuthMiddleware())
	{
		me.GET("/orders", orderCtrl.GetMyOrders)
		me.GET("/profile", userCtrl.GetProfile)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/orders", adminCtrl.ListOrders)
		admin.GET("/orders/:order_id", adminCtrl.GetOrderDetails)
		admin.PATCH("/orders/:order_id/status", adminCtrl.UpdateOrderStatus)
	}

	return r
}
