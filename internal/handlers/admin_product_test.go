package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func multipartContext(t *testing.T, fields map[string]string, photo []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", "photo.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(photo)
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/product", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func validProductFields() map[string]string {
	return map[string]string{
		"name":        "Fresh Apples",
		"description": "Crisp and sweet",
		"price":       "3.49",
		"quantity":    "120",
		"category":    primitive.NewObjectID().Hex(),
	}
}

func TestParseProductFormComplete(t *testing.T) {
	c := multipartContext(t, validProductFields(), []byte("jpegbytes"))

	form, err := parseProductForm(c, true)
	if err != nil {
		t.Fatalf("parseProductForm returned error: %v", err)
	}
	if form.Name != "Fresh Apples" || form.Price != 3.49 || form.Quantity != 120 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if !form.PhotoSet || string(form.Photo.Data) != "jpegbytes" {
		t.Fatalf("expected photo to be captured, got %+v", form.Photo)
	}
}

func TestParseProductFormMissingFields(t *testing.T) {
	for _, missing := range []string{"name", "description", "price", "quantity", "category"} {
		fields := validProductFields()
		delete(fields, missing)

		c := multipartContext(t, fields, []byte("jpegbytes"))
		if _, err := parseProductForm(c, true); err == nil {
			t.Errorf("expected error when %s is missing", missing)
		}
	}
}

func TestParseProductFormPhotoRequiredOnCreate(t *testing.T) {
	c := multipartContext(t, validProductFields(), nil)
	if _, err := parseProductForm(c, true); err == nil {
		t.Fatal("expected error when photo is missing on create")
	}
}

func TestParseProductFormPhotoOptionalOnUpdate(t *testing.T) {
	c := multipartContext(t, validProductFields(), nil)

	form, err := parseProductForm(c, false)
	if err != nil {
		t.Fatalf("parseProductForm returned error: %v", err)
	}
	if form.PhotoSet {
		t.Fatal("expected PhotoSet=false when no photo part is sent")
	}
}

func TestParseProductFormOversizedPhoto(t *testing.T) {
	c := multipartContext(t, validProductFields(), bytes.Repeat([]byte("x"), maxPhotoBytes+1))
	if _, err := parseProductForm(c, true); err == nil {
		t.Fatal("expected error for photo above 1MB")
	}
}
