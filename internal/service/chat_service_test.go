package service

import (
	"strings"
	"testing"
)

func TestSessionTitle(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("what should I take next semester ", 4)
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "short message is the title", message: "Which courses fit my schedule?", want: "Which courses fit my schedule?"},
		{name: "whitespace trimmed", message: "  hello  ", want: "hello"},
		{name: "long message truncated", message: long, want: long[:50]},
		{name: "empty message gets a default", message: "   ", want: "New conversation"},
	}
	for _, tt := range tests {
		if got := sessionTitle(tt.message); got != tt.want {
			t.Errorf("%s: sessionTitle(%q) = %q, want %q", tt.name, tt.message, got, tt.want)
		}
	}
}
