package transcript

import "context"

// Source fetches the transcript for a reference: a YouTube URL or id, or a
// local .srt/.vtt/.txt file
type Source interface {
	Fetch(ctx context.Context, ref string) (*Transcript, error)
}
