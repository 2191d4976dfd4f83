package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureDocumentFetcher implements DocumentFetcher for submissions staged in
// Azure Blob Storage.
type AzureDocumentFetcher struct {
	client   *azblob.Client
	maxBytes int64
}

func NewAzureDocumentFetcher(accountName, accountKey string, maxBytes int64) (*AzureDocumentFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureDocumentFetcher{client: client, maxBytes: maxBytes}, nil
}

// FetchDocument downloads a blob addressed as
// https://<account>.blob.core.windows.net/<container>/<blob path>.
func (s *AzureDocumentFetcher) FetchDocument(ctx context.Context, documentURL string) ([]byte, error) {
	containerName, blobName, err := splitBlobURL(documentURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(io.LimitReader(downloadResponse.Body, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", s.maxBytes)
	}
	return data, nil
}

// IsBlobURL reports whether a document URL points at Azure Blob Storage.
func IsBlobURL(documentURL string) bool {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Hostname(), ".blob.core.windows.net")
}

func splitBlobURL(documentURL string) (container, blob string, err error) {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	parts := strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("blob URL must contain container and blob path: %s", parsed.Path)
	}
	return parts[0], parts[1], nil
}
