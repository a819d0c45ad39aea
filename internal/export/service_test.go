package export

import (
	"compress/gzip"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
	"github.com/Jnxx02/logbook-kkn-generator/internal/store"
)

func testEntries() []models.LogEntry {
	return []models.LogEntry{
		{
			ID:              "b",
			Tanggal:         "2024-07-02",
			JamMulai:        "08:00",
			JamSelesai:      "10:00",
			JudulKegiatan:   "rapat desa",
			RincianKegiatan: "koordinasi",
		},
		{
			ID:              "a",
			Tanggal:         "2024-07-01",
			JamMulai:        "09:00",
			JudulKegiatan:   "survei lokasi",
			RincianKegiatan: "observasi awal",
		},
	}
}

func TestGenerateSendsGzipJSON(t *testing.T) {
	var got models.GeneratePayload
	var contentEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentEncoding = r.Header.Get("Content-Encoding")
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Errorf("request body is not gzip: %v", err)
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(zr).Decode(&got); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="Logbook_KKN.docx"`)
		w.Write([]byte("PK\x03\x04docx"))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil)
	res, err := svc.Generate(context.Background(), testEntries())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if contentEncoding != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", contentEncoding)
	}
	if string(res.Document) != "PK\x03\x04docx" {
		t.Errorf("Document = %q", res.Document)
	}
	if res.Filename != "Logbook_KKN.docx" {
		t.Errorf("Filename = %q, want Logbook_KKN.docx", res.Filename)
	}

	// Entries arrive in display order with the combined jam string.
	if len(got.Entries) != 2 {
		t.Fatalf("sent %d entries, want 2", len(got.Entries))
	}
	if got.Entries[0].ID != "a" || got.Entries[1].ID != "b" {
		t.Errorf("entry order = %q, %q, want a, b", got.Entries[0].ID, got.Entries[1].ID)
	}
	if got.Entries[0].Jam != "09:00" {
		t.Errorf("open-ended jam = %q, want 09:00", got.Entries[0].Jam)
	}
	if got.Entries[1].Jam != "08:00 - 10:00" {
		t.Errorf("ranged jam = %q, want 08:00 - 10:00", got.Entries[1].Jam)
	}
}

func TestGenerateResolvesImageReferences(t *testing.T) {
	images := store.NewImageStore(store.NewMemoryKV(0))
	key, err := images.Put("data:image/jpeg;base64,abc")
	if err != nil {
		t.Fatal(err)
	}

	var got models.GeneratePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zr, _ := gzip.NewReader(r.Body)
		json.NewDecoder(zr).Decode(&got)
		w.Write([]byte("doc"))
	}))
	defer srv.Close()

	entries := testEntries()
	entries[0].DokumenPendukung = key
	entries[1].DokumenPendukung = "dangling-reference"

	svc := NewService(srv.URL, images)
	if _, err := svc.Generate(context.Background(), entries); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Entry "b" (index 1 after sorting) had the resolvable key.
	if got.Entries[1].DokumenPendukung != "data:image/jpeg;base64,abc" {
		t.Errorf("resolved payload = %q", got.Entries[1].DokumenPendukung)
	}
	if got.Entries[0].DokumenPendukung != "" {
		t.Errorf("dangling reference resolved to %q, want empty", got.Entries[0].DokumenPendukung)
	}
}

func TestGenerateSurfacesDetailOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail body", http.StatusInternalServerError, `{"detail":"gagal membuat dokumen"}`, "gagal membuat dokumen"},
		{"raw body", http.StatusBadGateway, "upstream exploded", "upstream exploded"},
		{"empty body", http.StatusServiceUnavailable, "", "generate endpoint returned 503 Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc := NewService(srv.URL, nil)
			_, err := svc.Generate(context.Background(), testEntries())
			if !errors.Is(err, errors.ErrHTTP) {
				t.Fatalf("Generate() error = %v, want HTTP_ERROR", err)
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) {
				t.Fatalf("error is not an AppError: %v", err)
			}
			if appErr.Message != tt.want {
				t.Errorf("detail = %q, want %q", appErr.Message, tt.want)
			}
		})
	}
}

func TestGenerateNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewService(srv.URL, nil)
	_, err := svc.Generate(context.Background(), testEntries())
	if !errors.Is(err, errors.ErrNetwork) {
		t.Errorf("Generate() error = %v, want NETWORK_ERROR", err)
	}
}

func TestGenerateDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("doc"))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil)
	res, err := svc.Generate(context.Background(), testEntries())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Filename != "logbook.docx" {
		t.Errorf("Filename = %q, want logbook.docx", res.Filename)
	}
}

func TestMockServiceRecordsCalls(t *testing.T) {
	m := NewMockService()
	entries := testEntries()

	res, err := m.Generate(context.Background(), entries)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(res.Document) != "mock document" {
		t.Errorf("Document = %q", res.Document)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1", m.CallCount())
	}
	if len(m.LastEntries()) != len(entries) {
		t.Errorf("LastEntries() = %d entries, want %d", len(m.LastEntries()), len(entries))
	}

	m.SetError(errors.New(errors.ErrHTTP, "boom"))
	if _, err := m.Generate(context.Background(), entries); !errors.Is(err, errors.ErrHTTP) {
		t.Errorf("Generate() with error set = %v, want HTTP_ERROR", err)
	}
}
