package env

import (
	"reflect"
	"testing"
)

func TestGetIntOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 64},
		{"12", 12},
		{"abc", 64},
		{"0", 64},
		{"-3", 64},
	}
	for _, tt := range tests {
		t.Setenv(SendQueueSize, tt.value)
		if got := GetIntOrDefault(SendQueueSize, 64); got != tt.want {
			t.Errorf("GetIntOrDefault(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestGetListOrDefault(t *testing.T) {
	t.Setenv(CorsAllow, " http://a.test , ,http://b.test")
	want := []string{"http://a.test", "http://b.test"}
	if got := GetListOrDefault(CorsAllow, nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}

	t.Setenv(CorsAllow, " , ")
	if got := GetListOrDefault(CorsAllow, []string{"*"}); !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{AppEnv, HTTPAddr, AuditTable, ChatRedisURL, ChatRedisChannel, SendQueueSize} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.SendQueueSize != 64 || cfg.RedisChannel != "chat:audit" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DynamoEnabled() || cfg.RedisEnabled() {
		t.Fatal("audit sinks should be off by default")
	}
}

func TestLoadRequiresAWSCredentialsForAudit(t *testing.T) {
	t.Setenv(AuditTable, "chat_audit")
	t.Setenv(AWSRegion, "eu-west-1")
	t.Setenv(AWSID, "")
	t.Setenv(AWSSecret, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for missing credentials")
	}

	t.Setenv(AWSID, "id")
	t.Setenv(AWSSecret, "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DynamoEnabled() || cfg.AuditTable != "chat_audit" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
