package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var testRetry = RetryConfig{
	MaxAttempts: 3,
	InitialWait: 100 * time.Millisecond,
	MaxWait:     time.Second,
	Multiplier:  2,
}

// newTestRetry returns a RetryProvider that records its waits instead of
// sleeping.
func newTestRetry(p Provider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	rp := WithRetry(p, cfg)
	var waits []time.Duration
	rp.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return rp, &waits
}

func quizRequest(check func(json.RawMessage) error) Request {
	return Request{
		System:   "You write quiz questions.",
		Messages: []Message{{Role: RoleUser, Content: "Five questions about multiplication."}},
		Schema:   quizSchema(),
		Check:    check,
	}
}

func TestRetryResamplesRejectedBatch(t *testing.T) {
	mock := NewMockProvider(MockResponse{Raw: oneQuestion}, MockResponse{Raw: oneQuestion})
	rp, waits := newTestRetry(mock, testRetry)

	checks := 0
	resp, err := rp.Generate(context.Background(), quizRequest(func(json.RawMessage) error {
		checks++
		if checks == 1 {
			return batchRejection{retry: true}
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != oneQuestion {
		t.Errorf("content = %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, a rejected batch is resampled at once", *waits)
	}
}

func TestRetryStopsOnFinalRejection(t *testing.T) {
	mock := NewMockProvider(MockResponse{Raw: oneQuestion}, MockResponse{Raw: oneQuestion})
	rp, _ := newTestRetry(mock, testRetry)

	_, err := rp.Generate(context.Background(), quizRequest(func(json.RawMessage) error {
		return batchRejection{retry: false}
	}))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryMalformedBatchUsesEveryAttempt(t *testing.T) {
	bad := MockResponse{Raw: "Here you go!"}
	mock := NewMockProvider(bad, bad, bad, bad)
	rp, _ := newTestRetry(mock, testRetry)

	_, err := rp.Generate(context.Background(), quizRequest(nil))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if mock.CallCount() != testRetry.MaxAttempts {
		t.Errorf("calls = %d, want %d", mock.CallCount(), testRetry.MaxAttempts)
	}
}

func TestRetryBacksOffWhileUnavailable(t *testing.T) {
	down := MockResponse{Err: fail(KindUnavailable, errors.New("503"))}
	mock := NewMockProvider(down, down, TextResponse("Mitochondria make energy."))
	rp, waits := newTestRetry(mock, testRetry)

	resp, err := rp.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "What do mitochondria do?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Mitochondria make energy." {
		t.Errorf("Text() = %q", resp.Text())
	}

	if len(*waits) != 2 {
		t.Fatalf("waits = %v, want 2", *waits)
	}
	first, second := (*waits)[0], (*waits)[1]
	if first < 80*time.Millisecond || first > 120*time.Millisecond {
		t.Errorf("first wait = %s, want 100ms ±20%%", first)
	}
	if second < 160*time.Millisecond || second > 240*time.Millisecond {
		t.Errorf("second wait = %s, want 200ms ±20%%", second)
	}
}

func TestRetryWaitIsCappedAtMaxWait(t *testing.T) {
	cfg := testRetry
	cfg.InitialWait = 5 * time.Second
	down := MockResponse{Err: fail(KindUnavailable, nil)}
	rp, waits := newTestRetry(NewMockProvider(down, TextResponse("ok")), cfg)

	if _, err := rp.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := (*waits)[0]; w > 1200*time.Millisecond {
		t.Errorf("wait = %s, want at most MaxWait plus jitter", w)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	limited := MockResponse{Err: &Failure{Kind: KindRateLimited, RetryAfter: 500 * time.Millisecond}}
	mock := NewMockProvider(limited, MockResponse{Raw: oneQuestion})
	rp, waits := newTestRetry(mock, testRetry)

	if _, err := rp.Generate(context.Background(), quizRequest(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 500*time.Millisecond {
		t.Errorf("waits = %v, want [500ms]", *waits)
	}
}

func TestRetryGivesUpOnLongRateLimit(t *testing.T) {
	limited := MockResponse{Err: &Failure{Kind: KindRateLimited, RetryAfter: 30 * time.Second}}
	mock := NewMockProvider(limited, MockResponse{Raw: oneQuestion})
	rp, waits := newTestRetry(mock, testRetry)

	_, err := rp.Generate(context.Background(), quizRequest(nil))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if mock.CallCount() != 1 || len(*waits) != 0 {
		t.Errorf("calls = %d, waits = %v", mock.CallCount(), *waits)
	}
}

func TestRetrySkipsPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated batch", fail(KindTruncated, nil)},
		{"bad API key", fail(KindMisconfigured, errors.New("401"))},
		{"not a Failure", errors.New("boom")},
		{"caller cancelled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockResponse{Raw: oneQuestion})
			rp, _ := newTestRetry(mock, testRetry)

			_, err := rp.Generate(context.Background(), quizRequest(nil))
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if mock.CallCount() != 1 {
				t.Errorf("calls = %d, want 1", mock.CallCount())
			}
		})
	}
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	down := MockResponse{Err: fail(KindUnavailable, nil)}
	rp := WithRetry(NewMockProvider(down, down), testRetry)

	_, err := rp.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetryZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(TextResponse("hi"))
	rp, _ := newTestRetry(mock, RetryConfig{})

	if _, err := rp.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rp.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", rp.ModelID())
	}
}
