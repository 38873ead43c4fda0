package catalog

import (
	"regexp"
	"strings"

	"myday-qr/internal/models"
)

type categoryInfo struct {
	Label  string
	Colour string
	Order  int
}

const (
	CategoryDecoration = "decoracao"
	CategoryMugs       = "canecas"
	CategoryKeyrings   = "porta-chaves"
	CategoryMagnets    = "iman-autocolante"
	CategoryDigital    = "digital"
)

var categories = map[string]categoryInfo{
	CategoryDecoration: {Label: "Decoração", Colour: "red", Order: 1},
	CategoryMugs:       {Label: "Canecas", Colour: "amber", Order: 2},
	CategoryKeyrings:   {Label: "Porta-chaves", Colour: "blue", Order: 3},
	CategoryMagnets:    {Label: "Íman / Autocolante", Colour: "purple", Order: 4},
	CategoryDigital:    {Label: "Digital", Colour: "green", Order: 5},
}

// unknownCategoryOrder sorts categories without an entry after the known ones.
const unknownCategoryOrder = 99

var nameRules = []struct {
	re   *regexp.Regexp
	slug string
}{
	{regexp.MustCompile(`caneca`), CategoryMugs},
	{regexp.MustCompile(`chaveiro|porta[- ]?chaves?`), CategoryKeyrings},
	{regexp.MustCompile(`autocolante|iman|íman|sticker`), CategoryMagnets},
	{regexp.MustCompile(`digital|download|png`), CategoryDigital},
}

// InferCategory uses the product's category when it is a known slug and
// otherwise guesses from the name.
func InferCategory(p *models.Product) string {
	if p.Category != nil {
		raw := strings.ToLower(strings.TrimSpace(*p.Category))
		if _, ok := categories[raw]; ok {
			return raw
		}
	}
	name := strings.ToLower(p.Name)
	for _, rule := range nameRules {
		if rule.re.MatchString(name) {
			return rule.slug
		}
	}
	return CategoryDecoration
}

func categoryFor(slug string) categoryInfo {
	if info, ok := categories[slug]; ok {
		return info
	}
	return categoryInfo{Label: slug, Colour: "red", Order: unknownCategoryOrder}
}
