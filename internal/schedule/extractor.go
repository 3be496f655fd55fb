package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shiftwatch/internal/shared/apperror"
)

// Extractor turns an uploaded schedule document into work days. Extraction
// itself (PDF text, OCR) runs in an external service; this is only the
// transport to it.
type Extractor interface {
	ExtractPDF(ctx context.Context, pdfBase64 string) ([]WorkDay, error)
	ExtractImage(ctx context.Context, imageBase64 string) ([]WorkDay, error)
}

type httpExtractor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPExtractor talks to the schedule extraction service at baseURL
// (SCHEDULE_PARSER_URL).
func NewHTTPExtractor(baseURL string) Extractor {
	return &httpExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *httpExtractor) ExtractPDF(ctx context.Context, pdfBase64 string) ([]WorkDay, error) {
	return e.extract(ctx, "/extract/pdf", map[string]string{"pdf_base64": pdfBase64})
}

func (e *httpExtractor) ExtractImage(ctx context.Context, imageBase64 string) ([]WorkDay, error) {
	return e.extract(ctx, "/extract/image", map[string]string{"image_base64": imageBase64})
}

func (e *httpExtractor) extract(ctx context.Context, path string, payload map[string]string) ([]WorkDay, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"Schedule extraction service is unavailable", http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.New(apperror.CodeServiceUnavailable,
			fmt.Sprintf("Schedule extraction failed with status %d", resp.StatusCode),
			http.StatusServiceUnavailable)
	}

	var out struct {
		WorkDays []WorkDay `json:"work_days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"Schedule extraction returned a malformed response", http.StatusServiceUnavailable)
	}
	return out.WorkDays, nil
}
