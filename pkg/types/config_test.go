package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: ""},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "negative pool size returns ErrInvalidPoolSize",
			config:  Config{Backend: "sqlite", MaxOpenConns: -1},
			wantErr: ErrInvalidPoolSize,
		},
		{
			name:    "negative busy timeout returns ErrInvalidPoolSize",
			config:  Config{Backend: "sqlite", BusyTimeoutMS: -5},
			wantErr: ErrInvalidPoolSize,
		},
		{
			name:    "valid sqlite config",
			config:  DefaultConfig(),
			wantErr: nil,
		},
		{
			name:    "sqlite with zero pool settings is valid",
			config:  Config{Backend: "sqlite"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{Backend: BackendSQLite}.WithDefaults()
	if got.MaxOpenConns != DefaultMaxOpenConns || got.BusyTimeoutMS != DefaultBusyTimeoutMS {
		t.Fatalf("defaults not applied: %+v", got)
	}

	custom := Config{Backend: BackendSQLite, MaxOpenConns: 1, BusyTimeoutMS: 10}.WithDefaults()
	if custom.MaxOpenConns != 1 || custom.BusyTimeoutMS != 10 {
		t.Fatalf("explicit values overwritten: %+v", custom)
	}
}
