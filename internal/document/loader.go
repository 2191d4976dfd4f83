package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	apperrors "go-kyc-validator/internal/errors"
	"go-kyc-validator/internal/logger"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// Role tags a page with its expected content. The mapping from page number
// to role is a fixed positional convention the caller is expected to follow:
// page 1 carries the filled form sheet, page 2 the identity card photo page,
// page 3 the selfie.
type Role string

const (
	RoleUnclassified Role = "unclassified"
	RoleIdentityCard Role = "identity_card"
	RoleSelfie       Role = "selfie"
)

// RequiredPageCount is the only accepted document shape.
const RequiredPageCount = 3

const (
	identityCardPageNr = 2
	selfiePageNr       = 3
)

// Page is one loaded PDF page. Raw holds the first embedded image stream of
// the page; Image is its decoded raster, nil when the stream uses an encoding
// the standard decoders do not cover.
type Page struct {
	Number int // 1-based page number
	Role   Role
	Raw    []byte
	Image  image.Image
}

// Document is a structurally validated submission, role-tagged and ready for
// the extraction and face-match branches.
type Document struct {
	Pages []Page
}

// IdentityCard returns the identity-card page. Load guarantees its presence.
func (d *Document) IdentityCard() Page {
	return d.page(RoleIdentityCard)
}

// Selfie returns the selfie page. Load guarantees its presence.
func (d *Document) Selfie() Page {
	return d.page(RoleSelfie)
}

func (d *Document) page(role Role) Page {
	for _, p := range d.Pages {
		if p.Role == role {
			return p
		}
	}
	return Page{}
}

// Loader validates raw submission bytes and loads role-tagged page images.
type Loader struct {
	maxBytes int64
	conf     *model.Configuration
}

// NewLoader creates a loader enforcing the given file size limit in MB.
func NewLoader(maxFileSizeMB int64) *Loader {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Loader{
		maxBytes: maxFileSizeMB * 1024 * 1024,
		conf:     conf,
	}
}

// Load checks size, parses the PDF, enforces the 3-page shape and extracts
// the embedded image of the identity-card and selfie pages. The size check
// runs before any decoding so oversized payloads are rejected cheaply. All
// failures here are fatal: no external capability has been called yet.
func (l *Loader) Load(data []byte) (*Document, error) {
	if int64(len(data)) > l.maxBytes {
		sizeMB := float64(len(data)) / (1024 * 1024)
		return nil, apperrors.NewPayloadTooLargeError(
			fmt.Sprintf("file size (%.2f MB) exceeds maximum allowed size (%d MB)", sizeMB, l.maxBytes/(1024*1024)), nil)
	}

	rs := bytes.NewReader(data)
	pageCount, err := api.PageCount(rs, l.conf)
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidPDF,
			"file is not a valid PDF or is corrupted", err)
	}
	if pageCount != RequiredPageCount {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidPageCount,
			fmt.Sprintf("PDF must have exactly %d pages, found %d pages", RequiredPageCount, pageCount), nil)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.NewInternalError("failed to rewind document reader", err)
	}

	pageImages, err := l.extractPageImages(rs)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Pages: []Page{
			{Number: 1, Role: RoleUnclassified},
			{Number: identityCardPageNr, Role: RoleIdentityCard},
			{Number: selfiePageNr, Role: RoleSelfie},
		},
	}
	for i := range doc.Pages {
		p := &doc.Pages[i]
		if p.Role == RoleUnclassified {
			continue
		}
		raw, ok := pageImages[p.Number]
		if !ok {
			return nil, apperrors.NewValidationError(apperrors.CodeNoPageImage,
				fmt.Sprintf("no embedded image found on page %d", p.Number), nil)
		}
		p.Raw = raw
		if img, _, decErr := image.Decode(bytes.NewReader(raw)); decErr == nil {
			p.Image = img
		} else {
			logger.WithError(decErr).WithFields(logrus.Fields{
				"page": p.Number,
			}).Debug("Page image stream not decodable, using raw bytes")
		}
	}

	logger.WithFields(logrus.Fields{
		"pages":      pageCount,
		"size_bytes": len(data),
	}).Debug("Document loaded")

	return doc, nil
}

// extractPageImages pulls the first embedded raster of the identity-card and
// selfie pages, keyed by 1-based page number.
func (l *Loader) extractPageImages(rs io.ReadSeeker) (map[int][]byte, error) {
	selected := []string{
		fmt.Sprintf("%d", identityCardPageNr),
		fmt.Sprintf("%d", selfiePageNr),
	}
	extracted, err := api.ExtractImagesRaw(rs, selected, l.conf)
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidPDF,
			"failed to extract page images", err)
	}

	pageImages := make(map[int][]byte, len(selected))
	for _, imgs := range extracted {
		for _, img := range imgs {
			if _, ok := pageImages[img.PageNr]; ok {
				continue
			}
			raw, readErr := io.ReadAll(img)
			if readErr != nil {
				return nil, apperrors.NewValidationError(apperrors.CodeInvalidPDF,
					fmt.Sprintf("failed to read embedded image on page %d", img.PageNr), readErr)
			}
			pageImages[img.PageNr] = raw
		}
	}
	return pageImages, nil
}
