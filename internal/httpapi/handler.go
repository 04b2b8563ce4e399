package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/processor"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
)

// summaryRequest carries either a YouTube URL or id to fetch, or the text
// itself. Local paths are never accepted over HTTP.
type summaryRequest struct {
	Ref      string `json:"ref" validate:"required_without=Text,excluded_with=Text"`
	Text     string `json:"text" validate:"required_without=Ref"`
	Title    string `json:"title" validate:"max=300"`
	Language string `json:"language" validate:"omitempty,max=16"`
}

type errorResponse struct {
	Error   string             `json:"error"`
	Kind    string             `json:"kind,omitempty"`
	Outcome *processor.Outcome `json:"outcome,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createSummary(c echo.Context) error {
	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Kind: string(pipeline.KindInput)})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "provide exactly one of ref or text", Kind: string(pipeline.KindInput)})
	}

	ctx := c.Request().Context()
	var (
		out *processor.Outcome
		err error
	)
	if req.Ref != "" {
		out, err = s.proc.ProcessRemote(ctx, req.Ref)
	} else {
		out, err = s.proc.ProcessText(ctx, processor.TextRequest{Text: req.Text, Title: req.Title, Language: req.Language})
	}
	if err != nil {
		status, kind := classify(out, err)
		return c.JSON(status, errorResponse{Error: err.Error(), Kind: kind, Outcome: out})
	}
	return c.JSON(http.StatusOK, out)
}

// classify maps a failed job onto an HTTP status
func classify(out *processor.Outcome, err error) (int, string) {
	switch {
	case errors.Is(err, transcript.ErrInvalidRef):
		return http.StatusBadRequest, string(pipeline.KindInput)
	case errors.Is(err, transcript.ErrNotAvailable):
		return http.StatusNotFound, string(pipeline.KindInput)
	}
	if out == nil || out.Run == nil {
		return http.StatusBadGateway, ""
	}

	kind := out.Run.ErrKind
	switch kind {
	case pipeline.KindInput, pipeline.KindChunking:
		return http.StatusUnprocessableEntity, string(kind)
	case pipeline.KindRateLimited:
		return http.StatusTooManyRequests, string(kind)
	case pipeline.KindCancelled:
		return http.StatusServiceUnavailable, string(kind)
	case "":
		// the summary succeeded, rendering or saving failed
		return http.StatusInternalServerError, ""
	default:
		return http.StatusBadGateway, string(kind)
	}
}
