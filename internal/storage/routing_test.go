package storage

import (
	"context"
	"testing"
)

type recordingFetcher struct {
	name string
	hit  *string
}

func (r *recordingFetcher) FetchDocument(ctx context.Context, documentURL string) ([]byte, error) {
	*r.hit = r.name
	return []byte(r.name), nil
}

func TestRoutingFetcher(t *testing.T) {
	var hit string
	httpFetcher := &recordingFetcher{name: "http", hit: &hit}
	azureFetcher := &recordingFetcher{name: "azure", hit: &hit}

	r := NewRoutingFetcher(httpFetcher, azureFetcher)

	if _, err := r.FetchDocument(context.Background(), "https://acct.blob.core.windows.net/c/b.pdf"); err != nil {
		t.Fatal(err)
	}
	if hit != "azure" {
		t.Errorf("blob URL routed to %q", hit)
	}

	if _, err := r.FetchDocument(context.Background(), "https://example.com/b.pdf"); err != nil {
		t.Fatal(err)
	}
	if hit != "http" {
		t.Errorf("plain URL routed to %q", hit)
	}
}

func TestRoutingFetcherWithoutAzure(t *testing.T) {
	var hit string
	r := NewRoutingFetcher(&recordingFetcher{name: "http", hit: &hit}, nil)

	if _, err := r.FetchDocument(context.Background(), "https://acct.blob.core.windows.net/c/b.pdf"); err != nil {
		t.Fatal(err)
	}
	if hit != "http" {
		t.Error("blob URL must fall back to HTTP when Azure is not configured")
	}
}
