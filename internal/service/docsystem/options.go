package docsystem

import "time"

// Option configures a docsystem service
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the wall clock used for created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
