package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestMessageId(t *testing.T) {
	require.Equal(t, "0001-get-root.txt", messageId(1, "GET", "http://127.0.0.1:8080/"))
	require.Equal(
		t,
		"0012-post-Unit_SelectUnitFromUnitsList.txt",
		messageId(12, "POST", "http://127.0.0.1:8080/Unit/SelectUnitFromUnitsList?x=1"),
	)
}

func TestInstrumentClientCapture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.Write([]byte("<div>menus</div>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "captures")
	output, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}

	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, output)

	_, err = client.R().SetFormData(map[string]string{"menuOid": "10"}).Post("/Menu/SelectMenu")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), "-post-Menu_SelectMenu.txt"), entries[0].Name())

	contents, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(contents), "menuOid=10")
	require.Contains(t, string(contents), "<div>menus</div>")
	require.Empty(t, output.Errors())
}

func TestFormatHttpMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-b", "2")
		w.Header().Set("x-a", "1")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	res, err := resty.New().R().Get(server.URL + "/")
	require.NoError(t, err)

	message := FormatHttpMessage(res)
	require.True(t, strings.HasPrefix(message, "> GET "+server.URL+"/\n"), message)
	require.Contains(t, message, "<no body>")
	require.Contains(t, message, "< 200 (")
	require.Less(t, strings.Index(message, "X-A: 1"), strings.Index(message, "X-B: 2"))
	require.True(t, strings.HasSuffix(message, `{"success":true}`), message)
}
