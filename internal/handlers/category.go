package handlers

import (
	"context"
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

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondServerError(c, "GET /categories", err)
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondServerError(c, "GET /categories", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

func GetCategoryBySlug(db *mongo.Database) gin.HandlerFunc {
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
			respondServerError(c, "GET /category", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
	}
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category := models.Category{
			Name:      name,
			Slug:      slugify(name),
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			respondWriteError(c, "POST /category", "Category already exists", err)
			return
		}
		category.ID, _ = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"message":  "Category created successfully",
			"category": category,
		})
	}
}

func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Category
		err = db.Collection("categories").FindOneAndUpdate(
			ctx,
			bson.M{"_id": categoryID},
			bson.M{"$set": bson.M{"name": name, "slug": slugify(name)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}
		if err != nil {
			respondWriteError(c, "PUT /category", "Category already exists", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Category updated successfully",
			"category": updated,
		})
	}
}

func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid category id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": categoryID})
		if err != nil {
			respondServerError(c, "DELETE /category", err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
	}
}
