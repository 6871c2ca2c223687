package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body", "details": err.Error()})
}

func respondServerError(c *gin.Context, route string, err error) {
	log.Printf("[%s] [ERROR] %v", route, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
}

// respondWriteError maps a failed insert or update to the client. A unique
// index collision is a conflict even when a pre-check passed, since two
// concurrent writes can both pass the check and race to the index.
func respondWriteError(c *gin.Context, route, conflictMessage string, err error) {
	if mongo.IsDuplicateKeyError(err) {
		log.Printf("[%s] [ERROR] unique index collision: %v", route, err)
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": conflictMessage})
		return
	}
	respondServerError(c, route, err)
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// slugify lowercases and hyphenates a name for URL lookup.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func parsePage(pageStr string) (int64, error) {
	if pageStr == "" {
		return 1, nil
	}
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page %q", pageStr)
	}
	return page, nil
}
