package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Fresh Apples":        "fresh-apples",
		"  Trimmed  Name  ":   "trimmed-name",
		"Caffè Latte 250ml":   "caff-latte-250ml",
		"already-slugged":     "already-slugged",
		"UPPER & lower":       "upper-lower",
		"trailing symbols!!!": "trailing-symbols",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Errorf("slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRespondWriteErrorDuplicateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	collision := mongo.WriteException{WriteErrors: mongo.WriteErrors{
		{Code: 11000, Message: "E11000 duplicate key error collection: storefront.users index: email_unique"},
	}}
	respondWriteError(c, "POST /users/register", "An account already exists with this email.", collision)

	if w.Code != http.StatusConflict {
		t.Errorf("expected %d for a unique index collision, got %d", http.StatusConflict, w.Code)
	}
	if !strings.Contains(w.Body.String(), "An account already exists with this email.") {
		t.Errorf("expected conflict message in body, got %s", w.Body.String())
	}
}

func TestRespondWriteErrorOther(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondWriteError(c, "POST /users/register", "An account already exists with this email.", errors.New("connection reset"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected %d for a non-index write error, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestParsePage(t *testing.T) {
	if page, err := parsePage(""); err != nil || page != 1 {
		t.Errorf("expected empty page to default to 1, got %d err=%v", page, err)
	}
	if page, err := parsePage("3"); err != nil || page != 3 {
		t.Errorf("expected page 3, got %d err=%v", page, err)
	}
	for _, raw := range []string{"0", "-1", "abc"} {
		if _, err := parsePage(raw); err == nil {
			t.Errorf("expected parsePage(%q) to fail", raw)
		}
	}
}
