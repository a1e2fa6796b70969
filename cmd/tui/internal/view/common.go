package view

import (
	"context"
	"time"
)

type CommonModel struct {
	Width  int
	Height int
}

const (
	checkTimeout     = 15 * time.Second
	catalogTimeout   = 30 * time.Second
	recognizeTimeout = 2 * time.Minute
	submitTimeout    = 2 * time.Minute
)

// ReqCtx returns a context with a standard timeout for one remote call.
func ReqCtx(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
