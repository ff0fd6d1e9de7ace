package netnutrition

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"dineassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// nutrient is a single field of the label. Each label text is tried in order, the first
// one followed by a number wins.
type nutrient struct {
	name    string
	pattern []*regexp.Regexp
	set     func(info *NutritionInfo, value float64)
}

// labelPattern matches `<label>[:] [<|less than] <number>[unit]`.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)(?:^|[^a-z])` + regexp.QuoteMeta(label) +
			`\s*:?\s*(?:<\s*|less than\s*)?(\d[\d,]*(?:\.\d+)?)\s*(?:kcal|mcg|mg|g|%|iu)?`,
	)
}

func newNutrient(name string, set func(*NutritionInfo, float64), labels ...string) nutrient {
	patterns := make([]*regexp.Regexp, len(labels))
	for i, l := range labels {
		patterns[i] = labelPattern(l)
	}
	return nutrient{name: name, pattern: patterns, set: set}
}

func ptr[T any](v T) *T {
	return &v
}

var nutrients = []nutrient{
	newNutrient("calories", func(n *NutritionInfo, v float64) { n.Calories = ptr(v) }, "Calories"),
	newNutrient("calories from fat", func(n *NutritionInfo, v float64) { n.CaloriesFromFat = ptr(v) }, "Calories from Fat"),
	newNutrient("total fat", func(n *NutritionInfo, v float64) { n.TotalFat = ptr(v) }, "Total Fat"),
	newNutrient("saturated fat", func(n *NutritionInfo, v float64) { n.SaturatedFat = ptr(v) }, "Saturated Fat", "Sat. Fat"),
	newNutrient("trans fat", func(n *NutritionInfo, v float64) { n.TransFat = ptr(v) }, "Trans Fat"),
	newNutrient("cholesterol", func(n *NutritionInfo, v float64) { n.Cholesterol = ptr(v) }, "Cholesterol"),
	newNutrient("sodium", func(n *NutritionInfo, v float64) { n.Sodium = ptr(v) }, "Sodium"),
	newNutrient(
		"total carbohydrate",
		func(n *NutritionInfo, v float64) { n.TotalCarbohydrate = ptr(v) },
		"Total Carbohydrates", "Total Carbohydrate", "Total Carb.", "Carbohydrates",
	),
	newNutrient("dietary fiber", func(n *NutritionInfo, v float64) { n.DietaryFiber = ptr(v) }, "Dietary Fiber", "Fiber"),
	newNutrient("sugars", func(n *NutritionInfo, v float64) { n.Sugars = ptr(v) }, "Total Sugars", "Sugars"),
	newNutrient("protein", func(n *NutritionInfo, v float64) { n.Protein = ptr(v) }, "Protein"),
	newNutrient("vitamin a", func(n *NutritionInfo, v float64) { n.VitaminA = ptr(v) }, "Vitamin A"),
	newNutrient("vitamin c", func(n *NutritionInfo, v float64) { n.VitaminC = ptr(v) }, "Vitamin C"),
	newNutrient("vitamin d", func(n *NutritionInfo, v float64) { n.VitaminD = ptr(v) }, "Vitamin D"),
	newNutrient("calcium", func(n *NutritionInfo, v float64) { n.Calcium = ptr(v) }, "Calcium"),
	newNutrient("iron", func(n *NutritionInfo, v float64) { n.Iron = ptr(v) }, "Iron"),
	newNutrient("potassium", func(n *NutritionInfo, v float64) { n.Potassium = ptr(v) }, "Potassium"),
}

func (n nutrient) find(text string) (float64, bool) {
	for _, p := range n.pattern {
		groups := p.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}

var (
	ingredientsText = regexp.MustCompile(`(?i)ingredients\s*:\s*(.+?)(?:\s+allergens\s*:|$)`)
	servingSizeText = regexp.MustCompile(`(?i)serving size\s*:?\s*(.+?)(?:\s+(?:amount per serving|calories)\b|$)`)
)

// labelDoc is what the label strategies look at: the parsed document and its cleaned text.
type labelDoc struct {
	doc  *goquery.Document
	text string
}

type labelStrategy struct {
	name    string
	extract func(l labelDoc) (string, bool)
}

func textStrategy(name string, pattern *regexp.Regexp) labelStrategy {
	return labelStrategy{
		name: name,
		extract: func(l labelDoc) (string, bool) {
			groups := pattern.FindStringSubmatch(l.text)
			if len(groups) < 2 {
				return "", false
			}
			value := strings.TrimSpace(groups[1])
			return value, value != ""
		},
	}
}

func selectorStrategy(name, selector, prefix string) labelStrategy {
	return labelStrategy{
		name: name,
		extract: func(l labelDoc) (string, bool) {
			text := htmlutil.SelectionText(l.doc.Find(selector).First())
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			return text, text != ""
		},
	}
}

var ingredientStrategies = []labelStrategy{
	selectorStrategy("ingredients-class", ".cbo_nn_LabelIngredients", "Ingredients:"),
	textStrategy("ingredients-text", ingredientsText),
}

var servingSizeLabelStrategies = []labelStrategy{
	selectorStrategy("serving-size-class", ".cbo_nn_LabelServingSize", "Serving Size"),
	textStrategy("serving-size-text", servingSizeText),
}

func firstText(l labelDoc, strategies []labelStrategy) (string, bool) {
	for _, s := range strategies {
		value, ok := s.extract(l)
		if ok {
			return value, true
		}
	}
	return "", false
}

// looksLikeHtml reports whether a nutrition response is an html document, the portal answers
// with json (or nothing) when it has no label for an item.
func looksLikeHtml(doc NutritionDocument) bool {
	contentType := strings.ToLower(doc.ContentType)
	if strings.Contains(contentType, "json") {
		return false
	}
	trimmed := bytes.TrimSpace(doc.Body)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return false
	}
	return strings.Contains(contentType, "html") || trimmed[0] == '<'
}

// ExtractNutrition extracts a nutrition label. It returns false when the document is not
// html or carries no calories value, calories being the one field every real label has.
func ExtractNutrition(document NutritionDocument) (NutritionInfo, bool) {
	if !looksLikeHtml(document) {
		return NutritionInfo{}, false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document.Body))
	if err != nil {
		return NutritionInfo{}, false
	}

	l := labelDoc{
		doc:  doc,
		text: htmlutil.SelectionText(doc.Find("body")),
	}
	if l.text == "" {
		l.text = htmlutil.SelectionText(doc.Selection)
	}

	info := NutritionInfo{}
	for _, n := range nutrients {
		value, ok := n.find(l.text)
		if ok {
			n.set(&info, value)
		}
	}

	ingredients, ok := firstText(l, ingredientStrategies)
	if ok {
		info.Ingredients = &ingredients
	}
	servingSize, ok := firstText(l, servingSizeLabelStrategies)
	if ok {
		info.ServingSize = &servingSize
	}

	if info.Calories == nil {
		return NutritionInfo{}, false
	}
	return info, true
}
