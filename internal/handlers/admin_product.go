package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const maxPhotoBytes = 1_000_000

type productForm struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Category    primitive.ObjectID
	Photo       models.Photo
	PhotoSet    bool
}

// parseProductForm reads the multipart product payload. The photo part is
// validated against the 1MB cap when present; requirePhoto controls whether
// its absence is an error (create) or means keep-the-old-one (update).
func parseProductForm(c *gin.Context, requirePhoto bool) (productForm, error) {
	var form productForm

	form.Name = strings.TrimSpace(c.PostForm("name"))
	if form.Name == "" {
		return form, errors.New("Name is required")
	}
	form.Description = strings.TrimSpace(c.PostForm("description"))
	if form.Description == "" {
		return form, errors.New("Description is required")
	}

	priceRaw := strings.TrimSpace(c.PostForm("price"))
	if priceRaw == "" {
		return form, errors.New("Price is required")
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		return form, errors.New("Price is invalid")
	}
	form.Price = price

	categoryRaw := strings.TrimSpace(c.PostForm("category"))
	if categoryRaw == "" {
		return form, errors.New("Category is required")
	}
	categoryID, err := primitive.ObjectIDFromHex(categoryRaw)
	if err != nil {
		return form, errors.New("Category is invalid")
	}
	form.Category = categoryID

	quantityRaw := strings.TrimSpace(c.PostForm("quantity"))
	if quantityRaw == "" {
		return form, errors.New("Quantity is required")
	}
	quantity, err := strconv.Atoi(quantityRaw)
	if err != nil || quantity < 0 {
		return form, errors.New("Quantity is invalid")
	}
	form.Quantity = quantity

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if requirePhoto {
			return form, errors.New("Photo is required and should be less than 1MB")
		}
		return form, nil
	}
	if fileHeader.Size > maxPhotoBytes {
		return form, errors.New("Photo is required and should be less than 1MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return form, fmt.Errorf("could not read photo: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return form, fmt.Errorf("could not read photo: %w", err)
	}

	form.Photo = models.Photo{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	form.PhotoSet = true
	return form, nil
}

// CreateProduct inserts a catalog entry from a multipart form. Admin only.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseProductForm(c, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		product := models.Product{
			Name:        form.Name,
			Slug:        slugify(form.Name),
			Description: form.Description,
			Price:       form.Price,
			Category:    form.Category,
			Quantity:    form.Quantity,
			Photo:       form.Photo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWriteError(c, "POST /product", "A product with this name already exists", err)
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[PRODUCT] [INFO] product created:", product.Slug)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Product created successfully",
			"product": product,
		})
	}
}

// UpdateProduct overwrites a catalog entry. Omitting the photo part keeps
// the stored photo.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		form, err := parseProductForm(c, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		update := bson.M{
			"name":        form.Name,
			"slug":        slugify(form.Name),
			"description": form.Description,
			"price":       form.Price,
			"category":    form.Category,
			"quantity":    form.Quantity,
			"updatedAt":   time.Now(),
		}
		if form.PhotoSet {
			update["photo"] = form.Photo
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().
				SetReturnDocument(options.After).
				SetProjection(excludePhoto),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		if err != nil {
			respondWriteError(c, "PUT /product", "A product with this name already exists", err)
			return
		}

		log.Println("[PRODUCT] [INFO] product updated:", updated.Slug)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product updated successfully",
			"product": updated,
		})
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondServerError(c, "DELETE /product", err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		log.Println("[PRODUCT] [INFO] product deleted:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
	}
}
