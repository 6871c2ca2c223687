package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("user index warning:", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("product index warning:", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Println("category index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	signedIn := middleware.RequireSignIn(issuer)
	adminOnly := middleware.RequireAdmin(middleware.FetchRoleFromMongo(db))
	credentialLimit := middleware.RateLimit(rate.Limit(5), 10)

	r := gin.Default()
	r.Use(middleware.CORS())

	users := r.Group("/users")
	{
		users.POST("/register", credentialLimit, handlers.Register(db))
		users.POST("/login", credentialLimit, handlers.Login(db, issuer))

		users.GET("/user-auth", signedIn, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		users.GET("/admin-auth", signedIn, adminOnly, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		users.PUT("/profile", signedIn, handlers.UpdateProfile(db))
		users.PUT("/update-address", signedIn, handlers.UpdateAddress(db))
		users.DELETE("/delete-account", signedIn, handlers.DeleteAccount(db))

		users.POST("/checkout", signedIn, handlers.Checkout(db))
		users.GET("/orders", signedIn, handlers.GetMyOrders(db))
		users.GET("/all-orders", signedIn, adminOnly, handlers.GetAllOrders(db))
		users.PUT("/order-status/:orderId", signedIn, adminOnly, handlers.UpdateOrderStatus(db))
	}

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/list/:page", handlers.GetProductPage(db))
	r.GET("/products/count", handlers.GetProductCount(db))

	product := r.Group("/product")
	{
		product.GET("/slug/:slug", handlers.GetProductBySlug(db))
		product.GET("/id/:id", signedIn, adminOnly, handlers.GetProductByID(db))
		product.GET("/photo/:id", handlers.GetProductPhoto(db))
		product.GET("/search/:keyword", handlers.SearchProducts(db))
		product.GET("/related/:pid/:cid", handlers.GetRelatedProducts(db))
		product.GET("/category/:slug", handlers.GetProductsByCategory(db))

		product.POST("", signedIn, adminOnly, handlers.CreateProduct(db))
		product.PUT("/:id", signedIn, adminOnly, handlers.UpdateProduct(db))
		product.DELETE("/:id", signedIn, adminOnly, handlers.DeleteProduct(db))
	}

	r.GET("/categories", handlers.GetCategories(db))

	category := r.Group("/category")
	{
		category.GET("/:slug", handlers.GetCategoryBySlug(db))
		category.POST("", signedIn, adminOnly, handlers.CreateCategory(db))
		category.PUT("/:id", signedIn, adminOnly, handlers.UpdateCategory(db))
		category.DELETE("/:id", signedIn, adminOnly, handlers.DeleteCategory(db))
	}

	r.Run(":" + cfg.Port)
}
