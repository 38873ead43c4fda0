package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"myday-qr/internal/models"
)

func strPtr(s string) *string { return &s }

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name     string
		category *string
		want     string
	}{
		{"Caneca LOVE", nil, CategoryMugs},
		{"Chaveiro madeira", nil, CategoryKeyrings},
		{"Porta chaves coração", nil, CategoryKeyrings},
		{"Porta-chave", nil, CategoryKeyrings},
		{"Íman de frigorífico", nil, CategoryMagnets},
		{"Sticker pack", nil, CategoryMagnets},
		{"QR em PNG", nil, CategoryDigital},
		{"Quadro", nil, CategoryDecoration},
		{"Caneca", strPtr(" Digital "), CategoryDigital},
		{"Caneca", strPtr("t-shirts"), CategoryMugs},
	}
	for _, tc := range cases {
		got := InferCategory(&models.Product{Name: tc.name, Category: tc.category})
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestCategoryForUnknownSlug(t *testing.T) {
	info := categoryFor("t-shirts")
	assert.Equal(t, unknownCategoryOrder, info.Order)
	assert.Equal(t, "t-shirts", info.Label)

	assert.Equal(t, 2, categoryFor(CategoryMugs).Order)
	assert.Equal(t, "amber", categoryFor(CategoryMugs).Colour)
}
