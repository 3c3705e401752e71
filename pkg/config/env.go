package config

// Environment constants
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// IsProductionLike reports whether env enforces production configuration rules.
func IsProductionLike(env string) bool {
	return env == EnvStaging || env == EnvProduction
}

// IsProductionLike reports whether the server runs with production rules.
func (c *Config) IsProductionLike() bool {
	return c != nil && IsProductionLike(c.Server.Environment)
}
