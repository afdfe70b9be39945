package httpclients

import (
	"time"

	"resty.dev/v3"
)

// NewClient returns a resty client tagged with the caller name in the User-Agent.
func NewClient(name string) *resty.Client {
	return resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("User-Agent", "evmarket-api/"+name).
		SetHeader("Content-Type", "application/json")
}
