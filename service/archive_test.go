package service

import (
	"testing"

	"github.com/brunomainardes-tech/v0-contract-management-system/config"
)

func TestNewArchiveService(t *testing.T) {
	cfg := &config.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "test",
		UseSSL:    false,
	}

	// The client is created lazily; the endpoint is only dialed on the
	// first operation, so construction succeeds without a server.
	svc, err := NewArchiveService(cfg)
	if err != nil {
		t.Fatalf("NewArchiveService failed: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
}

func TestNewArchiveServiceInvalidEndpoint(t *testing.T) {
	cfg := &config.ArchiveConfig{
		Endpoint: "http://has-a-scheme:9000",
		Bucket:   "test",
	}

	if _, err := NewArchiveService(cfg); err == nil {
		t.Error("Expected error for endpoint with scheme")
	}
}
