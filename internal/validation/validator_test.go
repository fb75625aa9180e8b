package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/validation"
)

type contactRequest struct {
	Name    string `json:"name" validate:"trimmed_min=3"`
	Email   string `json:"email" validate:"required,loose_email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,br_phone"`
	Message string `json:"message" validate:"trimmed_min=10"`
}

type bookRequest struct {
	Title string `json:"title" validate:"trimmed_min=3"`
	Genre string `json:"genre" validate:"genre"`
}

func validContact() contactRequest {
	return contactRequest{
		Name:    "Ana Souza",
		Email:   "ana@example.com",
		Phone:   "(11) 98765-4321",
		Message: "Gostaria de doar livros.",
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validContact()))
	assert.NoError(t, v.Validate(bookRequest{Title: "Dom Casmurro", Genre: "fiction"}))
}

func TestValidator_FieldErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		mutate    func(*contactRequest)
		wantField string
		wantMsg   string
	}{
		{"short name after trim", func(r *contactRequest) { r.Name = "  Al  " }, "name", "must be at least 3 characters"},
		{"missing email", func(r *contactRequest) { r.Email = "" }, "email", "is required"},
		{"email without dot", func(r *contactRequest) { r.Email = "ana@example" }, "email", "must be a valid email address"},
		{"email with space", func(r *contactRequest) { r.Email = "ana souza@example.com" }, "email", "must be a valid email address"},
		{"unmasked phone", func(r *contactRequest) { r.Phone = "11987654321" }, "phone", "must look like (11) 98765-4321"},
		{"short message", func(r *contactRequest) { r.Message = "Oi!" }, "message", "must be at least 10 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validContact()
			tt.mutate(&req)

			err := v.Validate(req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
			assert.Len(t, details, 1)
		})
	}
}

func TestValidator_OptionalPhone(t *testing.T) {
	req := validContact()
	req.Phone = ""
	assert.NoError(t, validation.New().Validate(req))
}

func TestValidator_Genre(t *testing.T) {
	err := validation.New().Validate(bookRequest{Title: "Dom Casmurro", Genre: "romance"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details.(map[string]string)["genre"], "non-fiction")
}

func TestIsMaskedPhone(t *testing.T) {
	assert.True(t, validation.IsMaskedPhone("(11) 9876-5432"))
	assert.True(t, validation.IsMaskedPhone("(11)98765-4321"))
	assert.False(t, validation.IsMaskedPhone("(11) 987-4321"))
	assert.False(t, validation.IsMaskedPhone("11 98765-4321"))
}
