package cardmarket

import (
	"cmwizard/internal/components/telemetry"
	"slices"
	"time"

	"github.com/go-resty/resty/v2"
)

const report_client_retry = "client.retry"

// RetryPolicy decides which responses are retried and how long to wait in
// between. The Retry-After header is ignored on purpose, cardmarket
// overstates it by a lot.
type RetryPolicy struct {
	StatusCodes []int
	// Backoff returns the wait before the given retry, starting at 1.
	Backoff func(attempt int) time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration {
		return d
	}
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		StatusCodes: []int{429, 502, 503, 504},
		Backoff:     ConstantBackoff(32 * time.Second),
		MaxRetries:  3,
	}
}

func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.StatusCodes, status)
}

func (p RetryPolicy) wait(attempt int) time.Duration {
	if p.Backoff == nil {
		return time.Millisecond
	}
	// resty falls back to a jittered exponential backoff on a zero wait
	return max(p.Backoff(attempt), time.Millisecond)
}

// apply configures the policy onto a resty client. Rate limiting runs in
// OnBeforeRequest, so every retry also waits for the limiter.
func (p RetryPolicy) apply(client *resty.Client, tel telemetry.API) {
	client.SetRetryCount(max(p.MaxRetries, 0))
	client.SetRetryWaitTime(time.Millisecond)
	client.SetRetryMaxWaitTime(24 * time.Hour)
	client.SetRetryAfter(func(_ *resty.Client, res *resty.Response) (time.Duration, error) {
		return p.wait(res.Request.Attempt), nil
	})
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil || res == nil {
			return false
		}
		return p.Retryable(res.StatusCode())
	})
	client.AddRetryHook(func(res *resty.Response, err error) {
		if res == nil {
			return
		}
		tel.ReportWarning(
			report_client_retry,
			res.Request.Method,
			res.Request.URL,
			res.StatusCode(),
		)
	})
}
