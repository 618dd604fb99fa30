package kafka

import (
	"testing"

	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerFallback(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KafkaConfig
	}{
		{
			name: "disabled",
			cfg:  config.KafkaConfig{Enabled: false, Brokers: []string{"localhost:9094"}, Topic: "image-conversions"},
		},
		{
			name: "no brokers",
			cfg:  config.KafkaConfig{Enabled: true, Topic: "image-conversions"},
		},
		{
			name: "unreachable broker",
			cfg:  config.KafkaConfig{Enabled: true, Brokers: []string{"127.0.0.1:1"}, Topic: "image-conversions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProducer(tt.cfg)
			require.IsType(t, &logProducer{}, p)

			err := p.SendMessage(t.Context(), "req-1", entity.ConversionEvent{ID: "1", Outcome: entity.OutcomeSuccess})
			assert.NoError(t, err)
			assert.NoError(t, p.Close())
		})
	}
}
