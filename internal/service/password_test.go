package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/dev-connect/internal/domain"

	"github.com/msomdec/dev-connect/internal/service"
)

func TestPasswordHasher(t *testing.T) {
	h := service.NewPasswordHasher(4)

	digest, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "hunter22" {
		t.Fatal("digest must not equal the plaintext")
	}
	if !h.Verify("hunter22", digest) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("hunter23", digest) {
		t.Fatal("expected wrong password to fail")
	}
	if h.Verify("hunter22", "not-a-digest") {
		t.Fatal("expected malformed digest to fail")
	}

	again, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if again == digest {
		t.Fatal("expected a fresh salt per hash")
	}
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := service.NewPasswordHasher(4)

	if _, err := h.Hash(strings.Repeat("p", 72)); err != nil {
		t.Fatalf("72 bytes should hash: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("p", 80)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
