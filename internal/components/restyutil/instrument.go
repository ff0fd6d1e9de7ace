package restyutil

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Output receives a dump of every request/response pair.
type Output interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output Output
	tracer trace.Tracer
}

// shared by every client so clients writing to the same output never reuse an id
var idcounter atomic.Uint64

type messageIdKeyType int

var messageIdKey messageIdKeyType

// InstrumentClient wraps every request of the client in a client span. When output is not nil
// every response is also written to it. `tracer` can be nil, it then defaults to "resty".
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output Output) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	i := instrumentCtx{output: output, tracer: tracer}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// messageId is a sortable, filesystem safe name for a request.
func messageId(n uint64, method, rawUrl string) string {
	path := rawUrl
	parsed, err := url.Parse(rawUrl)
	if err == nil {
		path = parsed.Path
	}
	path = strings.Trim(unsafeFilenameChars.ReplaceAllString(path, "_"), "_")
	if path == "" {
		path = "root"
	}
	return fmt.Sprintf("%04d-%s-%s.txt", n, strings.ToLower(method), path)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method), trace.WithSpanKind(trace.SpanKindClient))

	id := messageId(idcounter.Add(1), req.Method, req.URL)
	ctx = context.WithValue(ctx, messageIdKey, id)

	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", res.Request.Method),
		attribute.String("url.full", res.Request.URL),
		attribute.Int("http.response.status_code", res.StatusCode()),
	)
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	if i.output != nil {
		id, ok := ctx.Value(messageIdKey).(string)
		if ok {
			i.output.Write(id, FormatHttpMessage(res))
		}
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.full", req.URL),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
}
