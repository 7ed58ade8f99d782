package agents

import "github.com/rs/zerolog"

type Option func(c *Config)

// WithUserID scopes the generated aggregate queries to the user
func WithUserID(id string) Option {
	return func(c *Config) {
		c.userID = id
	}
}

// WithProfile sets the user profile prepended to every synthesis prompt
func WithProfile(profile string) Option {
	return func(c *Config) {
		c.profile = profile
	}
}

// WithProfileFile reads the user profile from path when the agent is built, a missing file yields an empty profile
func WithProfileFile(path string) Option {
	return func(c *Config) {
		c.profilePath = path
	}
}

// WithMaxWords sets the answer length the model is asked to respect
func WithMaxWords(n int) Option {
	return func(c *Config) {
		c.maxWords = n
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}
