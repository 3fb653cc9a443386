package forumdb

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Option is a functional option for configuring a [Store].
type Option func(*Options)

// Options holds the configuration for a [Store]. Use [Option] functions
// (such as [WithThroughput] or [WithLogger]) to customise the defaults.
type Options struct {
	api           DynamoDBClient
	logger        zerolog.Logger
	clock         func() time.Time
	newBackoff    func() backoff.BackOff
	readCapacity  int64
	writeCapacity int64
	waitTimeout   time.Duration
}

func newOptions() *Options {
	return &Options{
		logger: zerolog.Nop(),
		clock:  time.Now,
		newBackoff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
		},
		readCapacity:  10,
		writeCapacity: 5,
		waitTimeout:   30 * time.Second,
	}
}

func (o *Options) validate() error {
	if o.readCapacity <= 0 || o.writeCapacity <= 0 {
		return errors.New("provisioned throughput must be greater than zero")
	}

	if o.waitTimeout <= 0 {
		return errors.New("wait timeout must be greater than zero")
	}

	if o.newBackoff == nil {
		return errors.New("backoff factory cannot be nil")
	}

	return nil
}

// WithAPI sets a custom [DynamoDBClient] implementation. This is useful when
// a custom DynamoDB configuration is required, or for injecting mocks in tests.
func WithAPI(api DynamoDBClient) Option {
	return func(o *Options) {
		o.api = api
	}
}

// WithLogger sets the logger used to report failed table operations.
// The default logger discards all events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithClock sets a custom clock function used by table waiters. Defaults to
// [time.Now]. This is useful for controlling time in tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

// WithBackoff sets the factory for the retry policy applied to unprocessed
// items during batch writes. The default policy is exponential with at most
// five retries. A fresh policy is created for every batch call.
func WithBackoff(factory func() backoff.BackOff) Option {
	return func(o *Options) {
		o.newBackoff = factory
	}
}

// WithThroughput sets the provisioned read and write capacity units used when
// creating the forum table. The defaults are 10 read and 5 write units.
func WithThroughput(read, write int64) Option {
	return func(o *Options) {
		o.readCapacity = read
		o.writeCapacity = write
	}
}

// WithWaitTimeout sets how long table waiters poll for a table to become
// active or deleted. The default is 30 seconds.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.waitTimeout = d
	}
}
