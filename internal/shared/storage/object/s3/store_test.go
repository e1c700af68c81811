package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/img.png", want: "user/img.png"},
		{name: "simple prefix", prefix: "documents", key: "user/img.png", want: "documents/user/img.png"},
		{name: "prefix and key slashes", prefix: "/documents/", key: "/user/img.png", want: "documents/user/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func testClient() *s3.Client {
	return s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	})
}

func TestURLUsesPublicBase(t *testing.T) {
	store := NewWithClient(testClient(), Options{Bucket: "notes", Prefix: "documents", PublicBaseURL: "https://cdn.example.com/"})
	got, err := store.URL(context.Background(), "abc/img.png")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if got != "https://cdn.example.com/documents/abc/img.png" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestURLPresignsWithoutPublicBase(t *testing.T) {
	store := NewWithClient(testClient(), Options{Bucket: "notes", Prefix: "documents"})
	got, err := store.URL(context.Background(), "abc/img.png")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if !strings.Contains(parsed.Path, "documents/abc/img.png") {
		t.Fatalf("unexpected path %q", parsed.Path)
	}
	if parsed.Query().Get("X-Amz-Signature") == "" {
		t.Fatalf("expected presigned signature")
	}
	if parsed.Query().Get("X-Amz-Expires") != "604800" {
		t.Fatalf("expected 7 day expiry, got %q", parsed.Query().Get("X-Amz-Expires"))
	}
}
