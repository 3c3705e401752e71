package config

import "testing"

func TestIsProductionLike(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{EnvDevelopment, false},
		{EnvTest, false},
		{EnvStaging, true},
		{EnvProduction, true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := IsProductionLike(tt.env); got != tt.want {
				t.Errorf("IsProductionLike(%q) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}

	var nilCfg *Config
	if nilCfg.IsProductionLike() {
		t.Error("nil config must not be production-like")
	}
}
