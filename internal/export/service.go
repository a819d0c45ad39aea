// Package export talks to the document-generation endpoint: it assembles
// the generate payload from stored entries and downloads the produced
// Word document.
package export

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"time"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
	"github.com/Jnxx02/logbook-kkn-generator/internal/store"
)

// DefaultTimeout bounds one generate request end to end.
const DefaultTimeout = 60 * time.Second

// Service posts entry collections to the generation endpoint and returns
// the resulting document. The endpoint is an opaque HTTP service; the
// request body is gzip-compressed JSON.
type Service struct {
	endpoint string
	client   *http.Client
	images   *store.ImageStore
}

// NewService creates a Service for the given endpoint URL. Image reference
// keys in entries are resolved through images before sending; the endpoint
// receives full payloads.
func NewService(endpoint string, images *store.ImageStore) *Service {
	return &Service{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		images:   images,
	}
}

// Result is one generated document.
type Result struct {
	Document []byte
	Filename string
}

// Generate sends entries to the endpoint and returns the document bytes.
// Entries are sent in display order. A transport failure is a
// NETWORK_ERROR; a non-2xx response is an HTTP_ERROR carrying the server's
// detail text.
func (s *Service) Generate(ctx context.Context, entries []models.LogEntry) (*Result, error) {
	payload := s.buildPayload(entries)

	body, err := encodeBody(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode generate payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, "generate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrHTTP, errorDetail(resp))
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, "failed to read generated document", err)
	}

	logging.Info("generated document", map[string]interface{}{
		"entries":  len(payload.Entries),
		"bytes":    len(doc),
		"duration": time.Since(start).String(),
	})

	return &Result{
		Document: doc,
		Filename: filename(resp),
	}, nil
}

// buildPayload converts entries to the wire shape: display order, combined
// jam string, image references resolved to full payloads.
func (s *Service) buildPayload(entries []models.LogEntry) models.GeneratePayload {
	sorted := make([]models.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(&sorted[j])
	})

	payload := models.GeneratePayload{Entries: make([]models.GenerateEntry, 0, len(sorted))}
	for i := range sorted {
		e := &sorted[i]
		ge := models.GenerateEntry{
			ID:              e.ID,
			Tanggal:         e.Tanggal,
			Jam:             e.JamRange(),
			JudulKegiatan:   e.JudulKegiatan,
			RincianKegiatan: e.RincianKegiatan,
		}
		if s.images != nil {
			if img, ok := s.images.Get(e.DokumenPendukung); ok {
				ge.DokumenPendukung = img
			}
		}
		payload.Entries = append(payload.Entries, ge)
	}
	return payload
}

// encodeBody serializes and gzip-compresses the payload.
func encodeBody(payload models.GeneratePayload) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

// errorDetail extracts the server's error text: the {"detail": ...} field
// when the body parses as the standard error shape, the raw body otherwise.
func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return fmt.Sprintf("generate endpoint returned %s", resp.Status)
	}
	var detail models.ErrorDetail
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return string(raw)
}

// filename extracts the attachment filename from Content-Disposition,
// falling back to a fixed name.
func filename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return "logbook.docx"
}
