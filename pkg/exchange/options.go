package exchange

type options struct {
	dryRun bool
	source string
}

// Option configures Import.
type Option func(*options)

// WithDryRun reports what an import would change without changing anything.
func WithDryRun() Option {
	return func(o *options) {
		o.dryRun = true
	}
}

// WithSource names the file being imported in errors and logs.
func WithSource(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
