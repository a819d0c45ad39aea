package models

// GenerateEntry is the shape the document-generation endpoint accepts.
// Jam is the combined time range string and DokumenPendukung carries the
// full encoded image payload, not a reference key.
type GenerateEntry struct {
	ID               string `json:"id"`
	Tanggal          string `json:"tanggal"`
	Jam              string `json:"jam"`
	JudulKegiatan    string `json:"judul_kegiatan"`
	RincianKegiatan  string `json:"rincian_kegiatan"`
	DokumenPendukung string `json:"dokumen_pendukung,omitempty"`
}

// GeneratePayload is the request body for POST /api/generate-word.
type GeneratePayload struct {
	Entries []GenerateEntry `json:"entries"`
}

// ErrorDetail is the JSON error body used by the backend and the
// document-generation endpoint.
type ErrorDetail struct {
	Detail string `json:"detail"`
}
