package records

import "time"

type Option func(*Config)

// WithUserID scopes every select to the user
func WithUserID(id string) Option {
	return func(c *Config) {
		c.userID = id
	}
}

// WithClock overrides the clock the 7 day window is computed from
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}
