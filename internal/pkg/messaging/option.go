package messaging

type consumeOptions struct {
	// concurrency specifies the number of handler goroutines processing
	// messages in parallel.
	concurrency int

	// autoAck indicates whether messages are acknowledged automatically
	// after the handler returns.
	autoAck bool

	// group identifies the Kafka consumer group name.
	group string
}

// ConsumeOption configures consumer behavior.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	var co consumeOptions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&co)
	}
	return co
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithGroup sets the consumer group name.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithAutoAck controls whether the wrapper acks/nacks automatically after the handler returns.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}

func concurrencyOrDefault(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}
