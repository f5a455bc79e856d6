package extract

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/binding"
)

// Json decodes and validates a JSON request body
type Json[T any] struct {
	Value T
}

// Extract implements Extractor
func (j *Json[T]) Extract(_ context.Context, r *http.Request, _ any) error {
	if !isJSON(r.Header.Get("Content-Type")) {
		return Reject(http.StatusUnsupportedMediaType, "missing_json_content_type",
			"expected request with `Content-Type: application/json`")
	}
	if err := binding.JSON.Bind(r, &j.Value); err != nil {
		return rejectBinding("json", err)
	}
	return nil
}

// Inner returns the decoded body
func (j Json[T]) Inner() T { return j.Value }

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
