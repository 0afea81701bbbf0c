package llm

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// statusFailure classifies an HTTP error status returned by a backend SDK.
func statusFailure(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Failure{Kind: KindRateLimited, RetryAfter: retryAfter, Err: err}
	case status == http.StatusRequestTimeout, status >= 500:
		return fail(KindUnavailable, err)
	case status >= 400:
		return fail(KindMisconfigured, err)
	}
	return transportFailure(err)
}

// transportFailure wraps an error raised before any status arrived. Context
// errors pass through untouched so a cancel is not mistaken for an outage.
func transportFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fail(KindUnavailable, err)
}

// retryAfter reads the Retry-After header in either of its two forms.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func emptyReply(backend string) error {
	return fail(KindMalformed, errors.New(backend+" returned no text"))
}
