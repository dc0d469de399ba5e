package rbm

import "testing"

func TestDefaultConfig(t *testing.T) {
	if !DefaultConf(784, 500).IsValid() {
		t.Errorf("Expected Default Config to be correct")
	}
}

func TestConfig_Validate(t *testing.T) {
	mod := func(f func(c *Config)) Config {
		c := DefaultConf(4, 3)
		f(&c)
		return c
	}
	tests := []struct {
		name    string
		conf    Config
		wantErr bool
	}{
		{"default", DefaultConf(4, 3), false},
		{"no inputs", mod(func(c *Config) { c.Inputs = 0 }), true},
		{"negative outputs", mod(func(c *Config) { c.Outputs = -1 }), true},
		{"zero learning rate", mod(func(c *Config) { c.LearningRate = 0 }), true},
		{"zero batch", mod(func(c *Config) { c.BatchSize = 0 }), true},
		{"CD-0", mod(func(c *Config) { c.CDn = 0 }), true},
		{"momentum decay 1", mod(func(c *Config) { c.UseMomentum = true; c.MomentumDecay = 1 }), true},
		{"negative momentum decay", mod(func(c *Config) { c.UseMomentum = true; c.MomentumDecay = -0.1 }), true},
		{"momentum decay ignored when disabled", mod(func(c *Config) { c.MomentumDecay = 5 }), false},
		{"momentum", mod(func(c *Config) { c.UseMomentum = true; c.MomentumDecay = 0.9 }), false},
		{"sum gradient", mod(func(c *Config) { c.Scale = SumGradient }), false},
		{"unknown gradient scale", mod(func(c *Config) { c.Scale = 7 }), true},
		{"negative init", mod(func(c *Config) { c.InitStdDev = -1 }), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.conf.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.conf.IsValid() == tt.wantErr {
				t.Errorf("IsValid() = %v, wantErr %v", tt.conf.IsValid(), tt.wantErr)
			}
		})
	}
}
