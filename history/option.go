package history

// Options hold configuration shared by file-backed managers.
type Options struct {
	BaseDir string
}

// NewOptions applies options over the defaults.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		BaseDir: "metrics_history",
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a history manager.
type Option func(*Options)

// WithBaseDir overrides the default base directory used to store records.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}
