package server_test

import (
	"testing"

	"dog-inventory/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Configured", "9090", ":9090"},
		{"Empty", "", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfig_MetricsEnabled(t *testing.T) {
	assert.True(t, server.Config{MetricsPath: "/metrics"}.MetricsEnabled())
	assert.False(t, server.Config{}.MetricsEnabled())
}
