// Package embed provides the Go embedding API for Rain VM.
//
// Pass program bytes, get the value of the result register back.
//
// Basic usage:
//
//	result, err := embed.Execute(program)
//
// With resource limits:
//
//	result, err := embed.ExecuteWithOptions(program,
//	    embed.WithTimeout(time.Second),
//	    embed.WithMaxSteps(10000),
//	)
package embed

import (
	"context"
	"errors"
	"time"

	"github.com/rainlang/rainvm/pkg/loader"
	"github.com/rainlang/rainvm/pkg/vm"
)

// Common errors
var (
	ErrTimeout   = errors.New("execution timeout exceeded")
	ErrStepLimit = errors.New("step limit exceeded")
)

// Execute runs raw program bytes (version byte included) and returns
// the value of R0 at halt.
func Execute(program []byte) (uint32, error) {
	return ExecuteWithOptions(program)
}

// ExecuteFile reads a program file and executes it.
func ExecuteFile(path string) (uint32, error) {
	data, err := loader.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return Execute(data)
}

// ExecuteHex decodes a hex listing and executes it.
func ExecuteHex(text string) (uint32, error) {
	data, err := loader.ParseHex(text)
	if err != nil {
		return 0, err
	}
	return Execute(data)
}

// Options configures execution behavior for ExecuteWithOptions.
type Options struct {
	// Timeout sets maximum execution time. Zero means no timeout.
	Timeout time.Duration

	// MaxSteps limits the number of instructions executed.
	// Zero means unlimited.
	MaxSteps int64

	// Context for cancellation. If nil, context.Background() is used.
	Context context.Context
}

// Option is a functional option for configuring execution.
type Option func(*Options)

// WithTimeout sets execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxSteps sets the instruction limit.
func WithMaxSteps(n int64) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithContext sets the context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// ExecuteWithOptions executes program bytes with resource limits. The
// VM itself never bounds execution; limits are the embedding caller's
// policy, applied here.
func ExecuteWithOptions(program []byte, opts ...Option) (uint32, error) {
	options := &Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(options)
	}

	parsed, err := vm.ParseProgram(program)
	if err != nil {
		return 0, err
	}

	machine := vm.NewVM()
	machine.SetMaxSteps(options.MaxSteps)
	if err := machine.Load(parsed); err != nil {
		return 0, err
	}

	ctx := options.Context
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}
	machine.SetContext(ctx)

	result, err := machine.Execute()
	if err != nil {
		switch {
		case errors.Is(err, vm.ErrStepLimitExceeded):
			return 0, ErrStepLimit
		case errors.Is(err, context.DeadlineExceeded):
			return 0, ErrTimeout
		}
		return 0, err
	}

	return result, nil
}
