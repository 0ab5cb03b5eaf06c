package source

import (
	"testing"

	"github.com/mmcdole/toonkor/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := map[string]struct {
		url     string
		wantErr bool
	}{
		"http":        {url: "http://localhost:8000"},
		"https":       {url: "https://collector.example.com"},
		"empty":       {url: "", wantErr: true},
		"no_scheme":   {url: "localhost:8000", wantErr: true},
		"ftp":         {url: "ftp://host", wantErr: true},
		"no_host":     {url: "http://", wantErr: true},
		"unparseable": {url: "http://[::1", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := adapter.DefaultConfig()
			cfg.Server.URL = tt.url

			client, err := NewClient(cfg, adapter.NullLogger())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClientNilConfig(t *testing.T) {
	_, err := NewClient(nil, adapter.NullLogger())
	assert.Error(t, err)
}
