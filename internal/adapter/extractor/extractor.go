package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizforge/internal/domain"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const maxFetchBytes = 20 << 20 // 20 MiB cap on fetched documents

// DocumentExtractor implements domain.ContentExtractor. Web pages and PDF
// uploads are reduced to plain text before they reach the prompt builder.
type DocumentExtractor struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDocumentExtractor creates a DocumentExtractor with a bounded HTTP client.
func NewDocumentExtractor(timeout time.Duration, logger *zap.Logger) *DocumentExtractor {
	return &DocumentExtractor{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FromURL fetches the page at url and extracts its visible text. PDF
// responses are detected by content type and routed through the PDF path.
func (e *DocumentExtractor) FromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewContentUnavailableError("invalid source URL", err)
	}
	req.Header.Set("User-Agent", "quizforge/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", domain.NewContentUnavailableError("failed to fetch source URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewContentUnavailableError(
			fmt.Sprintf("source URL returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", domain.NewContentUnavailableError("failed to read source body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/pdf") {
		return e.FromPDF(ctx, body)
	}

	text, err := e.extractHTML(ctx, body)
	if err != nil {
		return "", err
	}

	e.logger.Debug("extracted text from URL",
		zap.String("url", url),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// FromPDF extracts the text of an uploaded PDF document.
func (e *DocumentExtractor) FromPDF(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewContentUnavailableError("empty PDF upload", nil)
	}

	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", domain.NewContentUnavailableError("failed to parse PDF", err)
	}

	text := joinDocuments(docs)
	if text == "" {
		return "", domain.NewContentUnavailableError("PDF contains no extractable text", nil)
	}

	e.logger.Debug("extracted text from PDF",
		zap.Int("pages", len(docs)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func (e *DocumentExtractor) extractHTML(ctx context.Context, body []byte) (string, error) {
	loader := documentloaders.NewHTML(bytes.NewReader(body))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", domain.NewContentUnavailableError("failed to parse HTML", err)
	}

	text := joinDocuments(docs)
	if text == "" {
		return "", domain.NewContentUnavailableError("page contains no extractable text", nil)
	}
	return text, nil
}

func joinDocuments(docs []schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if content := strings.TrimSpace(doc.PageContent); content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n")
}
