package roast

// Option configures a Roaster.
type Option func(*OptionHolder)

// OptionHolder holds configuration options.
type OptionHolder struct {
	keepPrompt     bool
	maxReadmeBytes int
}

// WithKeepPrompt keeps the rendered prompt on each Result, for verbose output.
func WithKeepPrompt(keep bool) Option {
	return func(o *OptionHolder) {
		o.keepPrompt = keep
	}
}

// WithMaxReadmeBytes caps how much README text is placed in the prompt.
func WithMaxReadmeBytes(n int) Option {
	return func(o *OptionHolder) {
		if n > 0 {
			o.maxReadmeBytes = n
		}
	}
}
