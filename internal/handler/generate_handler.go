package handler

import (
	"context"
	"io"
	"strconv"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerationService is the part of the generation pipeline the HTTP layer
// depends on.
type GenerationService interface {
	GenerateFromURL(ctx context.Context, url, size string, count int, topicHint, subTopicHint string) (*domain.GenerationResult, error)
	GenerateFromPDF(ctx context.Context, data []byte, size string, count int, topicHint, subTopicHint string) (*domain.GenerationResult, error)
}

// GenerateHandler handles quiz generation HTTP requests
type GenerateHandler struct {
	service GenerationService
}

// NewGenerateHandler creates a new GenerateHandler instance
func NewGenerateHandler(service GenerationService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// GenerateFromLink handles POST /api/generate/from-link. The body binds from
// JSON or form encoding.
func (h *GenerateHandler) GenerateFromLink(c *fiber.Ctx) error {
	var req dto.GenerateFromLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body could not be parsed")
	}
	if req.URL == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("url")}
	}

	logger.Get().Info("generation from link requested",
		zap.String("url", req.URL),
		zap.String("size", req.Size),
		zap.Int("count", req.Count),
	)

	result, err := h.service.GenerateFromURL(c.Context(), req.URL, req.Size, req.Count, req.TopicHint, req.SubTopicHint)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGenerateResponse(result))
}

// GenerateFromPDF handles POST /api/generate/from-pdf. The document arrives
// as a multipart upload under the "file" field; size and topic_hint ride
// along as form values.
func (h *GenerateHandler) GenerateFromPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewContentUnavailableError("failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewContentUnavailableError("failed to read uploaded file", err)
	}

	count := 0
	if raw := c.FormValue("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("count", raw)}
		}
	}

	logger.Get().Info("generation from pdf requested",
		zap.String("filename", fileHeader.Filename),
		zap.Int("bytes", len(data)),
	)

	result, err := h.service.GenerateFromPDF(c.Context(), data, c.FormValue("size"), count, c.FormValue("topic_hint"), c.FormValue("sub_topic_hint"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGenerateResponse(result))
}
