package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 60 {
		t.Errorf("expected request timeout 60, got %d", cfg.Server.RequestTimeout)
	}
	if !reflect.DeepEqual(cfg.Server.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected CORS origins %v", cfg.Server.CORSAllowedOrigins)
	}
	if len(cfg.Auth.APIKeys) != 0 {
		t.Errorf("expected no API keys, got %v", cfg.Auth.APIKeys)
	}
	if cfg.Cassandra.Consistency != "LOCAL_QUORUM" {
		t.Errorf("expected LOCAL_QUORUM, got %s", cfg.Cassandra.Consistency)
	}
	if cfg.Events.Queue != "products.events" {
		t.Errorf("expected queue products.events, got %s", cfg.Events.Queue)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoad_Cassandra(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Cassandra")
	t.Setenv("CASSANDRA_CONTACT_POINTS", "10.0.0.1, 10.0.0.2 ,")
	t.Setenv("CASSANDRA_KEYSPACE", "catalog")
	t.Setenv("CASSANDRA_LOCAL_DATA_CENTER", "dc1")
	t.Setenv("CASSANDRA_TIMEOUT", "not-a-number")
	t.Setenv("API_KEYS", "catalog-admin,catalog-ops-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Driver != DriverCassandra {
		t.Errorf("expected driver %s, got %s", DriverCassandra, cfg.Store.Driver)
	}
	if !reflect.DeepEqual(cfg.Cassandra.ContactPoints, []string{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("unexpected contact points %v", cfg.Cassandra.ContactPoints)
	}
	if cfg.Cassandra.Timeout != 10 {
		t.Errorf("expected invalid timeout to fall back to 10, got %d", cfg.Cassandra.Timeout)
	}
	if len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("expected 2 API keys, got %v", cfg.Auth.APIKeys)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Store:  StoreConfig{Driver: DriverCassandra},
			Cassandra: CassandraConfig{
				ContactPoints: []string{"127.0.0.1"},
				Keyspace:      "catalog",
				Timeout:       10,
			},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"memory needs no cluster", func(c *Config) { c.Store.Driver = DriverMemory; c.Cassandra = CassandraConfig{} }, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, true},
		{"missing contact points", func(c *Config) { c.Cassandra.ContactPoints = nil }, true},
		{"missing keyspace", func(c *Config) { c.Cassandra.Keyspace = "" }, true},
		{"zero timeout", func(c *Config) { c.Cassandra.Timeout = 0 }, true},
		{"amqp without queue", func(c *Config) { c.Events.AMQPURL = "amqp://localhost" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
