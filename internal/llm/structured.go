// Package llm - structured.go is the uniform bounded-retry wrapper for
// structured generation and image synthesis. Every stage executor goes through
// these helpers instead of hand-rolling its own fallback logic.
package llm

import (
	"context"
	"errors"
	"time"
)

// MaxAttempts is the retry budget for a single structured call or image call.
const MaxAttempts = 3

// serviceBackoff is the base delay between retries after a service failure,
// doubled per attempt. Variable so tests can shrink it.
var serviceBackoff = 2 * time.Second

// StructuredRequest describes a structured-generation call. StrictPrompt is the
// stricter instruction template used from the second attempt on, after the
// first response could not be parsed.
type StructuredRequest struct {
	Prompt       string
	StrictPrompt string
	Tier         ModelTier
	Temperature  float32
}

// GenerateStructured calls the client until the response parses into out or the
// attempt budget is exhausted.
//
// Policy, applied uniformly across stages:
//   - unparsable output (including context timeouts, which the orchestration
//     core treats identically) switches to the strict prompt and the strict
//     temperature for the remaining attempts
//   - service failures and empty output retry the same prompt after a short
//     exponential backoff
//
// On exhaustion the last error is returned, wrapped as *UnparsableError when
// any response text was received; the caller then continues with its default
// record.
func GenerateStructured(ctx context.Context, client Client, req StructuredRequest, out any) error {
	prompt := req.Prompt
	temperature := req.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	var lastErr error
	var lastRaw string

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		raw, err := client.GenerateJSON(ctx, prompt, req.Tier, temperature)
		if err != nil {
			if ctx.Err() != nil {
				// A cancelled or timed-out call yields no text to repair;
				// report it like any other unparsable outcome.
				return &UnparsableError{Attempts: attempt, Cause: ctx.Err()}
			}
			lastErr = err
			if isRetryableService(err) && attempt < MaxAttempts {
				sleepBackoff(ctx, attempt)
				continue
			}
			break
		}

		lastRaw = raw
		if err := DecodeLenient(raw, out); err != nil {
			lastErr = err
			if req.StrictPrompt != "" {
				prompt = req.StrictPrompt
			}
			temperature = StrictTemperature
			continue
		}
		return nil
	}

	var unparsable *UnparsableError
	if errors.As(lastErr, &unparsable) {
		return &UnparsableError{Attempts: MaxAttempts, Raw: lastRaw, Cause: unparsable.Cause}
	}
	return lastErr
}

// SynthesizeWithRetry drives an image generation call through the same retry
// budget, backing off on service failures and empty payloads.
func SynthesizeWithRetry(ctx context.Context, client ImageClient, req ImageRequest) (*ImageData, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		img, err := client.Generate(ctx, req)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if isRetryableService(err) && attempt < MaxAttempts {
			sleepBackoff(ctx, attempt)
			continue
		}
		break
	}
	return nil, lastErr
}

// EditWithRetry drives an image edit call through the retry budget.
func EditWithRetry(ctx context.Context, client ImageClient, base *ImageData, instructions string, req ImageRequest) (*ImageData, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		img, err := client.Edit(ctx, base, instructions, req)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if isRetryableService(err) && attempt < MaxAttempts {
			sleepBackoff(ctx, attempt)
			continue
		}
		break
	}
	return nil, lastErr
}

// isRetryableService reports whether the error is a transient provider fault.
func isRetryableService(err error) bool {
	var service *ServiceError
	if errors.As(err, &service) {
		return true
	}
	var empty *EmptyOutputError
	return errors.As(err, &empty)
}

// sleepBackoff waits the backoff delay for the given attempt, returning early
// when the context is done.
func sleepBackoff(ctx context.Context, attempt int) {
	delay := serviceBackoff << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
