package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

type checkoutPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type checkoutRequest struct {
	Products []string               `json:"products" binding:"required"`
	Payment  checkoutPaymentRequest `json:"payment" binding:"required"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type orderBuyerView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// orderView is an order with its references resolved for display. Product
// photos are never included.
type orderView struct {
	ID        string             `json:"id"`
	Products  []models.Product   `json:"products"`
	Payment   models.Payment     `json:"payment"`
	Buyer     orderBuyerView     `json:"buyer"`
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// buildOrderFromCheckout validates the checkout payload and shapes the
// order document. Duplicate product ids are kept; repetition is how an
// order expresses quantity.
func buildOrderFromCheckout(req checkoutRequest, buyer primitive.ObjectID) (models.Order, error) {
	if len(req.Products) == 0 {
		return models.Order{}, errors.New("at least one product is required")
	}

	method := strings.TrimSpace(req.Payment.Method)
	if method != "cash" && method != "card" {
		return models.Order{}, errors.New("invalid payment method")
	}

	products := make([]primitive.ObjectID, 0, len(req.Products))
	for _, raw := range req.Products {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			return models.Order{}, errors.New("invalid productId")
		}
		products = append(products, productID)
	}

	now := time.Now()
	return models.Order{
		Products: products,
		Payment: models.Payment{
			Method: method,
		},
		Buyer:     buyer,
		Status:    models.StatusNotProcess,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Checkout creates an order for the signed-in buyer. The payment record is
// stamped here and treated as opaque afterwards.
func Checkout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromCheckout(req, userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		distinct := make([]primitive.ObjectID, 0, len(order.Products))
		seen := make(map[primitive.ObjectID]bool, len(order.Products))
		for _, id := range order.Products {
			if !seen[id] {
				seen[id] = true
				distinct = append(distinct, id)
			}
		}

		cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": distinct}})
		if err != nil {
			respondServerError(c, "POST /users/checkout", err)
			return
		}
		defer cursor.Close(ctx)

		var found []models.Product
		if err := cursor.All(ctx, &found); err != nil {
			respondServerError(c, "POST /users/checkout", err)
			return
		}

		priceByID := make(map[primitive.ObjectID]float64, len(found))
		for _, product := range found {
			priceByID[product.ID] = product.Price
		}

		total := 0.0
		for _, id := range order.Products {
			price, exists := priceByID[id]
			if !exists {
				c.JSON(http.StatusBadRequest, gin.H{
					"success":   false,
					"message":   "Product not found",
					"productId": id.Hex(),
				})
				return
			}
			total += price
		}

		order.Payment.Success = true
		order.Payment.TransactionID = uuid.NewString()
		order.Payment.Amount = total

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondServerError(c, "POST /users/checkout", err)
			return
		}
		order.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order placed successfully",
			"orderId": order.ID.Hex(),
			"payment": order.Payment,
		})
	}
}

// GetMyOrders lists the caller's orders with resolved references. No sort
// is guaranteed here; only the admin listing sorts.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"buyer": userID})
		if err != nil {
			respondServerError(c, "GET /users/orders", err)
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondServerError(c, "GET /users/orders", err)
			return
		}

		views, err := resolveOrders(ctx, db, orders)
		if err != nil {
			respondServerError(c, "GET /users/orders", err)
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// GetAllOrders lists every order, newest first. Admin only.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondServerError(c, "GET /users/all-orders", err)
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondServerError(c, "GET /users/all-orders", err)
			return
		}

		views, err := resolveOrders(ctx, db, orders)
		if err != nil {
			respondServerError(c, "GET /users/all-orders", err)
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// UpdateOrderStatus transitions an order to one of the enumerated statuses.
// Anything outside the enumeration is rejected before any write.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
			return
		}

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		if err != nil {
			respondServerError(c, "PUT /users/order-status", err)
			return
		}

		views, err := resolveOrders(ctx, db, []models.Order{updated})
		if err != nil {
			respondServerError(c, "PUT /users/order-status", err)
			return
		}

		log.Println("[ORDER] [INFO] status updated:", orderID.Hex(), "->", status)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status updated successfully",
			"order":   views[0],
		})
	}
}

// resolveOrders fetches the referenced products (photo excluded) and buyer
// names in two bulk queries and rebuilds each order's product list in its
// original sequence, repetitions included.
func resolveOrders(ctx context.Context, db *mongo.Database, orders []models.Order) ([]orderView, error) {
	productIDs := make([]primitive.ObjectID, 0)
	buyerIDs := make([]primitive.ObjectID, 0)
	seenProduct := make(map[primitive.ObjectID]bool)
	seenBuyer := make(map[primitive.ObjectID]bool)

	for _, order := range orders {
		for _, id := range order.Products {
			if !seenProduct[id] {
				seenProduct[id] = true
				productIDs = append(productIDs, id)
			}
		}
		if !order.Buyer.IsZero() && !seenBuyer[order.Buyer] {
			seenBuyer[order.Buyer] = true
			buyerIDs = append(buyerIDs, order.Buyer)
		}
	}

	productByID := make(map[primitive.ObjectID]models.Product, len(productIDs))
	if len(productIDs) > 0 {
		cursor, err := db.Collection("products").Find(
			ctx,
			bson.M{"_id": bson.M{"$in": productIDs}},
			options.Find().SetProjection(bson.M{"photo": 0}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			return nil, err
		}
		for _, product := range products {
			productByID[product.ID] = product
		}
	}

	buyerByID := make(map[primitive.ObjectID]models.User, len(buyerIDs))
	if len(buyerIDs) > 0 {
		cursor, err := db.Collection("users").Find(
			ctx,
			bson.M{"_id": bson.M{"$in": buyerIDs}},
			options.Find().SetProjection(bson.M{"firstname": 1, "lastname": 1}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var buyers []models.User
		if err := cursor.All(ctx, &buyers); err != nil {
			return nil, err
		}
		for _, buyer := range buyers {
			buyerByID[buyer.ID] = buyer
		}
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		resolved := make([]models.Product, 0, len(order.Products))
		for _, id := range order.Products {
			// deleted products simply drop out of the display list
			if product, exists := productByID[id]; exists {
				resolved = append(resolved, product)
			}
		}

		buyer := buyerByID[order.Buyer]
		views = append(views, orderView{
			ID:       order.ID.Hex(),
			Products: resolved,
			Payment:  order.Payment,
			Buyer: orderBuyerView{
				ID:        order.Buyer.Hex(),
				FirstName: buyer.FirstName,
				LastName:  buyer.LastName,
			},
			Status:    order.Status,
			CreatedAt: order.CreatedAt,
			UpdatedAt: order.UpdatedAt,
		})
	}
	return views, nil
}
