package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

type RegisterRequest struct {
	FirstName       string `json:"firstname" binding:"required"`
	LastName        string `json:"lastname" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Phone           string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// updateProfileRequest uses pointer fields so that an omitted field keeps
// its previous value while a present-but-empty field overwrites it.
type updateProfileRequest struct {
	FirstName       *string `json:"firstname"`
	LastName        *string `json:"lastname"`
	Phone           *string `json:"phone"`
	Street          *string `json:"street"`
	City            *string `json:"city"`
	PostalCode      *string `json:"postalCode"`
	Country         *string `json:"country"`
	OldPassword     *string `json:"oldPassword"`
	NewPassword     *string `json:"newPassword"`
	ConfirmPassword *string `json:"confirmPassword"`
}

type updateAddressRequest struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

func Register(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Password and confirmation do not match.",
			})
			return
		}

		if err := auth.ValidatePasswordStrength(req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		email := strings.TrimSpace(req.Email)
		if !emailPattern.MatchString(email) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please use a valid email address"})
			return
		}

		phone := strings.TrimSpace(req.Phone)
		if phone != "" && !phonePattern.MatchString(phone) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please use a valid phone number"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondServerError(c, "POST /users/register", err)
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] register email exists:", email)
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "An account already exists with this email.",
			})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondServerError(c, "POST /users/register", err)
			return
		}

		now := time.Now()
		user := models.User{
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        email,
			PasswordHash: hash,
			Phone:        phone,
			Role:         models.RoleBuyer,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			respondWriteError(c, "POST /users/register", "An account already exists with this email.", err)
			return
		}
		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Account registered successfully.",
			"user":    user.Projection(),
		})
	}
}

func Login(db *mongo.Database, issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.TrimSpace(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User doesn't exist. Please register or try another email.",
			})
			return
		}
		if err != nil {
			respondServerError(c, "POST /users/login", err)
			return
		}

		if !auth.CheckPassword(req.Password, user.PasswordHash) {
			log.Println("[AUTH] [ERROR] login invalid credentials:", email)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Incorrect email or password!",
			})
			return
		}

		token, err := issuer.Issue(user.ID)
		if err != nil {
			respondServerError(c, "POST /users/login", err)
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful!",
			"user":    user.Projection(),
			"token":   token,
		})
	}
}

// buildProfileUpdate turns the non-nil patch fields into a $set document.
// Password fields are handled separately by the handler.
func buildProfileUpdate(req updateProfileRequest) bson.M {
	update := bson.M{}
	if req.FirstName != nil {
		update["firstname"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		update["lastname"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		update["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Street != nil {
		update["street"] = strings.TrimSpace(*req.Street)
	}
	if req.City != nil {
		update["city"] = strings.TrimSpace(*req.City)
	}
	if req.PostalCode != nil {
		update["postalCode"] = strings.TrimSpace(*req.PostalCode)
	}
	if req.Country != nil {
		update["country"] = strings.TrimSpace(*req.Country)
	}
	return update
}

func buildAddressUpdate(req updateAddressRequest) bson.M {
	update := bson.M{}
	if req.Street != nil {
		update["street"] = strings.TrimSpace(*req.Street)
	}
	if req.City != nil {
		update["city"] = strings.TrimSpace(*req.City)
	}
	if req.PostalCode != nil {
		update["postalCode"] = strings.TrimSpace(*req.PostalCode)
	}
	if req.Country != nil {
		update["country"] = strings.TrimSpace(*req.Country)
	}
	return update
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			if phone != "" && !phonePattern.MatchString(phone) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please use a valid phone number"})
				return
			}
		}

		update := buildProfileUpdate(req)

		changingPassword := req.OldPassword != nil || req.NewPassword != nil || req.ConfirmPassword != nil
		if changingPassword {
			if req.OldPassword == nil || req.NewPassword == nil || req.ConfirmPassword == nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "To change your password, all password fields must be filled.",
				})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			var user models.User
			if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
				return
			}

			if !auth.CheckPassword(*req.OldPassword, user.PasswordHash) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Old password is incorrect."})
				return
			}
			if *req.NewPassword != *req.ConfirmPassword {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "New password and confirmation do not match.",
				})
				return
			}
			if err := auth.ValidatePasswordStrength(*req.NewPassword); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}

			hash, err := auth.HashPassword(*req.NewPassword)
			if err != nil {
				respondServerError(c, "PUT /users/profile", err)
				return
			}
			update["password"] = hash
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		if err != nil {
			respondServerError(c, "PUT /users/profile", err)
			return
		}

		log.Println("[USER] [INFO] profile updated:", updated.Email)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Profile updated successfully!",
			"updatedUser": updated.Projection(),
		})
	}
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req updateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := buildAddressUpdate(req)
		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		if err != nil {
			respondServerError(c, "PUT /users/update-address", err)
			return
		}

		log.Println("[USER] [INFO] address updated:", updated.Email)
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Address updated successfully",
			"updatedAddress": updated.Projection(),
		})
	}
}

// DeleteAccount removes the user document outright. Orders placed by the
// account are kept and retain a dangling buyer reference.
func DeleteAccount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			respondServerError(c, "DELETE /users/delete-account", err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}

		log.Println("[USER] [INFO] account deleted:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted successfully"})
	}
}
