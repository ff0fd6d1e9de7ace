package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{text: "  Pepperoni\n\t Pizza ", expected: "Pepperoni Pizza"},
		{text: "Total Fat 10g", expected: "Total Fat 10g"},
		{text: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.text))
	}
}

func TestSelectionTextSkipsScripts(t *testing.T) {
	doc, err := ParseFragment(`<div id="a">Hello <script>var x = 1;</script><b>world</b></div>`)
	require.NoError(t, err)
	require.Equal(t, "Hello world", SelectionText(doc.Find("#a")))
}

func TestSelectionTextSeparatesCells(t *testing.T) {
	doc, err := ParseFragment(`<table><tr><td>Serving Size 1 cup</td></tr><tr><td>Calories&nbsp;250</td></tr></table>`)
	require.NoError(t, err)
	require.Equal(t, "Serving Size 1 cup Calories 250", SelectionText(doc.Find("table")))
}
