package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=5"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ana@example.com","name":"Ana"}`))
	var got signup
	require.NoError(t, DecodeJSONBody(r, &got))
	assert.Equal(t, "Ana", got.Name)
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","name":""}`))
	var got signup
	err := DecodeJSONBody(r, &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	fields := apperr.Fields(err)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "is required", fields["name"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","name":"A","admin":true}`))
	var got signup
	err := DecodeJSONBody(r, &got)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestWriteErrorUsesStatusAndPublicMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, fmt.Errorf("admin lookup for u1: %w", apperr.ErrUnauthorized)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "not authorized", body.Error)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "olá", SanitizeString("  olá  ", 0))
	assert.Equal(t, "ab", SanitizeString(" abc ", 2))
}
