package netnutrition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of extracting a value out of a selection.
type Strategy[T any] struct {
	Name    string
	Extract func(sel *goquery.Selection) (T, bool)
}

// FirstOf runs the strategies in order and returns the result of the first one that succeeds,
// along with its name. Later strategies are not run once one succeeds.
func FirstOf[T any](sel *goquery.Selection, strategies []Strategy[T]) (T, string, bool) {
	for _, s := range strategies {
		value, ok := s.Extract(sel)
		if ok {
			return value, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// SelectorChain is an ordered list of css selectors, the first one matching anything wins.
type SelectorChain []string

// Find returns the matches of the first selector that matches at least one node, or an
// empty selection.
func (c SelectorChain) Find(sel *goquery.Selection) *goquery.Selection {
	for _, selector := range c {
		found := sel.Find(selector)
		if found.Length() > 0 {
			return found
		}
	}
	return sel.Find("__no_match__")
}

var (
	// argument list of every call in a handler
	callArguments = regexp.MustCompile(`\(([^()]*)\)`)
	digits        = regexp.MustCompile(`^\d+$`)
)

// ParseCallArgument pulls the numeric argument out of an inline event handler such as
// `javascript:menuListSelectMenu(123);` or `getItemNutritionLabelOnClick(event, 4567)`.
// Every call and every argument is looked at, the first positive integer wins. It returns 0
// when there is none.
func ParseCallArgument(handler string) int {
	for _, groups := range callArguments.FindAllStringSubmatch(handler, -1) {
		for _, arg := range strings.Split(groups[1], ",") {
			arg = strings.Trim(strings.TrimSpace(arg), `'"`)
			if !digits.MatchString(arg) {
				continue
			}
			n, ok := parsePositiveInt(arg)
			if ok {
				return n
			}
		}
	}
	return 0
}

var numericSuffix = regexp.MustCompile(`(\d+)$`)

func parseNumericSuffix(s string) (int, bool) {
	groups := numericSuffix.FindStringSubmatch(strings.TrimSpace(s))
	if len(groups) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// attrStrategy reads an attribute of the selection itself.
func attrStrategy[T any](name, attr string, parse func(string) (T, bool)) Strategy[T] {
	return Strategy[T]{
		Name: name,
		Extract: func(sel *goquery.Selection) (T, bool) {
			value, exists := sel.Attr(attr)
			if !exists {
				var zero T
				return zero, false
			}
			return parse(value)
		},
	}
}
