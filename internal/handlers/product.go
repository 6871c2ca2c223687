package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const productsPerPage = 6

var excludePhoto = bson.M{"photo": 0}

// GetProducts lists the newest products, photo excluded, capped at 100.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetProjection(excludePhoto).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(100)

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"totalProducts": len(products),
			"message":       "Products retrieved successfully",
			"products":      products,
		})
	}
}

// GetProductPage returns one fixed-size page, newest first.
func GetProductPage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c.Param("page"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid page"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetProjection(excludePhoto).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * productsPerPage).
			SetLimit(productsPerPage)

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondServerError(c, "GET /products/list", err)
			return
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			respondServerError(c, "GET /products/list", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

func GetProductCount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").EstimatedDocumentCount(ctx)
		if err != nil {
			respondServerError(c, "GET /products/count", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "total": total})
	}
}

func GetProductBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(
			ctx,
			bson.M{"slug": slug},
			options.FindOne().SetProjection(excludePhoto),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		if err != nil {
			respondServerError(c, "GET /product/slug", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product details retrieved successfully",
			"product": product,
		})
	}
}

func GetProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(
			ctx,
			bson.M{"_id": productID},
			options.FindOne().SetProjection(excludePhoto),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		if err != nil {
			respondServerError(c, "GET /product/id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product details retrieved successfully",
			"product": product,
		})
	}
}

// GetProductPhoto streams the stored photo bytes with their content type.
func GetProductPhoto(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(
			ctx,
			bson.M{"_id": productID},
			options.FindOne().SetProjection(bson.M{"photo": 1}),
		).Decode(&product)
		if err == mongo.ErrNoDocuments || (err == nil && len(product.Photo.Data) == 0) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Photo not found"})
			return
		}
		if err != nil {
			respondServerError(c, "GET /product/photo", err)
			return
		}

		c.Data(http.StatusOK, product.Photo.ContentType, product.Photo.Data)
	}
}

// SearchProducts is a plain case-insensitive substring match over name and
// description. No ranking.
func SearchProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := strings.TrimSpace(c.Param("keyword"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"$or": []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"description": bson.M{"$regex": keyword, "$options": "i"}},
		}}

		cursor, err := db.Collection("products").Find(
			ctx,
			filter,
			options.Find().SetProjection(excludePhoto),
		)
		if err != nil {
			respondServerError(c, "GET /product/search", err)
			return
		}
		defer cursor.Close(ctx)

		results := make([]models.Product, 0)
		if err := cursor.All(ctx, &results); err != nil {
			respondServerError(c, "GET /product/search", err)
			return
		}

		c.JSON(http.StatusOK, results)
	}
}

// GetRelatedProducts returns up to three other products from the same
// category.
func GetRelatedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("pid"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}
		categoryID, err := primitive.ObjectIDFromHex(c.Param("cid"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(
			ctx,
			bson.M{"category": categoryID, "_id": bson.M{"$ne": productID}},
			options.Find().SetProjection(excludePhoto).SetLimit(3),
		)
		if err != nil {
			respondServerError(c, "GET /product/related", err)
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0, 3)
		if err := cursor.All(ctx, &products); err != nil {
			respondServerError(c, "GET /product/related", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// GetProductsByCategory resolves a category slug then lists its products.
func GetProductsByCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err := db.Collection("categories").FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}
		if err != nil {
			respondServerError(c, "GET /product/category", err)
			return
		}

		cursor, err := db.Collection("products").Find(
			ctx,
			bson.M{"category": category.ID},
			options.Find().SetProjection(excludePhoto),
		)
		if err != nil {
			respondServerError(c, "GET /product/category", err)
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondServerError(c, "GET /product/category", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"category": category,
			"products": products,
		})
	}
}
