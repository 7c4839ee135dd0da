package service_test

import (
	"strings"
	"testing"

	"github.com/msomdec/dev-connect/internal/service"
)

func TestAvatarURL(t *testing.T) {
	got := service.AvatarURL("  MyEmailAddress@example.com ")
	want := "//www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?d=mm&r=pg&s=200"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if service.AvatarURL("a@example.com") == service.AvatarURL("b@example.com") {
		t.Fatal("expected different emails to get different avatars")
	}
	if !strings.Contains(service.AvatarURL("a@example.com"), "s=200") {
		t.Fatal("expected size parameter")
	}
}
