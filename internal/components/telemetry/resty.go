package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

// InstrumentOutput receives the full text of every request/response pair,
// it is only used when verbose logging is on.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentResty struct {
	tel       API
	output    InstrumentOutput
	tracer    trace.Tracer
	requests  metric.Int64Counter
	idcounter *uint64
}

// InstrumentResty reports every request made through `client` to `tel`, traces
// it with an otel span and counts it by status code. `output` may be nil.
func InstrumentResty(client *resty.Client, name string, tel API, output InstrumentOutput) {
	requests, err := otel.Meter(name).Int64Counter(
		"http.client.requests",
		metric.WithDescription("Number of http requests made, by status code."),
	)
	if err != nil {
		tel.ReportBroken(report_resty_request, fmt.Errorf("create counter: %w", err))
	}

	var idcounter uint64
	i := instrumentResty{
		tel:       tel,
		output:    output,
		tracer:    otel.Tracer(name),
		requests:  requests,
		idcounter: &idcounter,
	}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	start := time.Now()
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: start,
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	end := time.Now()
	ctx := res.Request.Context()

	span := trace.SpanFromContext(ctx)
	defer span.End()
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(res.Request.Method),
		semconv.URLFull(res.Request.URL),
		semconv.HTTPResponseStatusCode(res.StatusCode()),
		attribute.Int("http.request.attempt", res.Request.Attempt),
	)
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, res.Status())
	}

	if i.requests != nil {
		i.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("status", res.StatusCode()),
		))
	}

	reqCtx, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}
	duration := end.Sub(reqCtx.startTime)

	i.tel.ReportDebug(
		report_resty_response,
		reqCtx.id,
		duration.String(),
		res.Status(),
	)
	if i.output != nil {
		i.output.Write(strconv.FormatUint(reqCtx.id, 10), formatHttpMessage(res))
	}

	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	end := time.Now()
	ctx := req.Context()

	span := trace.SpanFromContext(ctx)
	defer span.End()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var duration time.Duration
	reqCtx, ok := ctx.Value(reqCtxKey).(reqCtx)
	if ok {
		duration = end.Sub(reqCtx.startTime)
	}

	// a cancelled run is not a broken component
	if ctx.Err() != nil {
		i.tel.ReportDebug(report_resty_response, req.Method, req.URL, ctx.Err())
		return
	}

	i.tel.ReportBroken(
		report_resty_response,
		err,
		req.Method,
		req.URL,
		duration,
	)
}

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
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
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<read body: %v>", err)
	}
	return string(contents)
}

// formatHttpMessage renders a request and its response as plain text, the
// format written to the http log directory.
func formatHttpMessage(res *resty.Response) string {
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

	location := res.Request.URL
	if res.RawResponse != nil {
		if redirected, err := res.RawResponse.Location(); err == nil {
			location = redirected.String()
		}
	}
	fmt.Fprintf(&out, "< %d %s\n", res.StatusCode(), location)
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
