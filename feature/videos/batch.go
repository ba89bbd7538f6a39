package videos

import (
	"errors"
	"strings"

	"video-catalog/core/reconcile"
	"video-catalog/core/utils"
	"video-catalog/feature/videos/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// Request-level batch errors, answered with a single 400.
var (
	ErrInvalidBody    = errors.New("request body must be a JSON object")
	ErrMissingVideos  = errors.New("videos is required")
	ErrVideosNotList  = errors.New("videos must be a list")
	ErrVideoNotObject = errors.New("each entry in videos must be a JSON object")
)

// ErrorEntry pairs a rejected input with its reason.
type ErrorEntry struct {
	Video reconcile.Fields `json:"video"`
	Error string           `json:"error"`
}

// BatchResponse is the bulk endpoint envelope. Empty buckets are omitted.
type BatchResponse struct {
	CreatedVideos []*models.Video `json:"created_videos,omitempty"`
	UpdatedVideos []*models.Video `json:"updated_videos,omitempty"`
	Errors        []ErrorEntry    `json:"errors,omitempty"`
}

// DecodeBatch parses {"videos": [...]} into reconcile records.
func DecodeBatch(body []byte) ([]reconcile.Record, error) {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, ErrInvalidBody
	}
	raw, ok := envelope["videos"]
	if !ok || raw == nil {
		return nil, ErrMissingVideos
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, ErrVideosNotList
	}

	records := make([]reconcile.Record, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, ErrVideoNotObject
		}
		records = append(records, reconcile.Record{
			Identifier: identifierOf(fields),
			Fields:     fields,
		})
	}
	return records, nil
}

func identifierOf(fields map[string]any) string {
	raw, ok := fields["video_id"]
	if !ok || raw == nil {
		return ""
	}
	s, err := utils.ParseString(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// NewBatchResponse builds the envelope for a batch result.
func NewBatchResponse(result reconcile.BatchResult[*models.Video]) BatchResponse {
	resp := BatchResponse{
		CreatedVideos: result.Created,
		UpdatedVideos: result.Updated,
	}
	for _, f := range result.Failed {
		resp.Errors = append(resp.Errors, ErrorEntry{Video: f.Input.Fields, Error: f.Reason})
	}
	return resp
}

// StatusFor maps a batch classification to its HTTP status.
func StatusFor(o reconcile.Outcome) int {
	switch o {
	case reconcile.OutcomeCreateUpdate, reconcile.OutcomeCreateOnly:
		return fiber.StatusCreated
	case reconcile.OutcomePartialAll, reconcile.OutcomePartialCreate, reconcile.OutcomePartialUpdate:
		return fiber.StatusPartialContent
	case reconcile.OutcomeTotalFailure:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusOK
	}
}
