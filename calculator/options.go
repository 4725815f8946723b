package calculator

type options struct {
	loss    float64
	lossSet bool
}

func newOptions(opt ...Option) *options {
	opts := &options{}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a single scoring call.
type Option func(*options)

// WithLoss attaches the caller-reported training loss to the snapshot.
func WithLoss(loss float64) Option {
	return func(o *options) {
		o.loss = loss
		o.lossSet = true
	}
}
