package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildProfileUpdateOmittedFieldsStayAbsent(t *testing.T) {
	update := buildProfileUpdate(updateProfileRequest{
		Phone: strPtr("+491701234567"),
	})

	assert.Equal(t, "+491701234567", update["phone"])
	assert.Len(t, update, 1, "omitted fields must not appear in the update")
}

func TestBuildProfileUpdatePresentEmptyStringOverwrites(t *testing.T) {
	update := buildProfileUpdate(updateProfileRequest{
		Phone:     strPtr(""),
		FirstName: strPtr("Ada"),
	})

	phone, ok := update["phone"]
	assert.True(t, ok, "an explicitly empty field must still be written")
	assert.Equal(t, "", phone)
	assert.Equal(t, "Ada", update["firstname"])
}

func TestBuildProfileUpdateTrimsValues(t *testing.T) {
	update := buildProfileUpdate(updateProfileRequest{
		FirstName: strPtr("  Ada "),
		Country:   strPtr(" Germany"),
	})

	assert.Equal(t, "Ada", update["firstname"])
	assert.Equal(t, "Germany", update["country"])
}

func TestBuildAddressUpdateScopedToAddressFields(t *testing.T) {
	update := buildAddressUpdate(updateAddressRequest{
		Street:     strPtr("Hauptstr. 1"),
		City:       strPtr("Berlin"),
		PostalCode: strPtr("10115"),
		Country:    strPtr("Germany"),
	})

	assert.Len(t, update, 4)
	assert.Equal(t, "Berlin", update["city"])
}

func TestBuildAddressUpdateEmptyPatch(t *testing.T) {
	update := buildAddressUpdate(updateAddressRequest{})
	assert.Empty(t, update)
}
