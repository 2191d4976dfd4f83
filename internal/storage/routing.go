package storage

import "context"

// RoutingFetcher dispatches blob URLs to the Azure fetcher when one is
// configured and everything else to the HTTP fetcher.
type RoutingFetcher struct {
	http  DocumentFetcher
	azure DocumentFetcher
}

func NewRoutingFetcher(httpFetcher, azureFetcher DocumentFetcher) *RoutingFetcher {
	return &RoutingFetcher{http: httpFetcher, azure: azureFetcher}
}

func (r *RoutingFetcher) FetchDocument(ctx context.Context, documentURL string) ([]byte, error) {
	if r.azure != nil && IsBlobURL(documentURL) {
		return r.azure.FetchDocument(ctx, documentURL)
	}
	return r.http.FetchDocument(ctx, documentURL)
}
