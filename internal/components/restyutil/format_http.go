package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

// writeHeaders writes headers one per line, sorted by key so that two captures of the
// same exchange can be diffed.
func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "<no body>"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<get body: %v>", err)
	}
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<read body: %v>", err)
	}
	if len(raw) == 0 {
		return "<no body>"
	}
	return string(raw)
}

// FormatHttpMessage dumps a portal exchange in a human readable form: the request line,
// headers and form body, then the status, elapsed time, headers and body of the response.
func FormatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("> ")
	out.WriteString(res.Request.Method)
	out.WriteString(" ")
	out.WriteString(res.Request.URL)
	out.WriteString("\n")
	if res.Request.RawRequest != nil {
		writeHeaders(&out, res.Request.RawRequest.Header)
	}
	out.WriteString("\n")
	out.WriteString(requestBody(res.Request.RawRequest))
	out.WriteString("\n\n")

	fmt.Fprintf(&out, "< %d (%s)", res.StatusCode(), res.Time())
	if res.RawResponse != nil {
		location, err := res.RawResponse.Location()
		if err == nil {
			out.WriteString(" -> ")
			out.WriteString(location.String())
		}
	}
	out.WriteString("\n")
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
