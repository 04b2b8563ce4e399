package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyentantai21042004/tube2book/internal/logger"
)

const defaultYouTubeURL = "https://www.youtube.com"

// [Music], [Applause]
var reBracketed = regexp.MustCompile(`\[[^\]]*\]`)

// youtubeSource reads caption tracks from the timedtext endpoint and the
// title from oEmbed
type youtubeSource struct {
	baseURL  string
	language string
	client   *http.Client
	logger   logger.Logger
}

func newYouTube(cfg Config, log logger.Logger) *youtubeSource {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultYouTubeURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &youtubeSource{
		baseURL:  base,
		language: cfg.Language,
		client:   &http.Client{Timeout: timeout},
		logger:   log,
	}
}

// Fetch tries the preferred language first, then the first listed track
func (y *youtubeSource) Fetch(ctx context.Context, ref string) (*Transcript, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	lang := y.language
	segs, err := y.track(ctx, id, lang)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		langs, err := y.trackLanguages(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, l := range langs {
			if l == y.language {
				continue
			}
			if segs, err = y.track(ctx, id, l); err != nil {
				return nil, err
			}
			if len(segs) > 0 {
				y.logger.Info(ctx, "No %q captions for %s, using %q", y.language, id, l)
				lang = l
				break
			}
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, id)
	}

	text, dur := fromSegments(segs)
	return &Transcript{
		VideoID:  id,
		Title:    y.title(ctx, id),
		URL:      WatchURL(id),
		Language: lang,
		Text:     text,
		Segments: segs,
		Duration: dur,
		Origin:   OriginYouTube,
	}, nil
}

// track downloads one caption track. A missing track is an empty result.
func (y *youtubeSource) track(ctx context.Context, id, lang string) ([]Segment, error) {
	q := url.Values{"v": {id}, "lang": {lang}}
	body, err := y.get(ctx, "/api/timedtext?"+q.Encode())
	if err != nil || strings.TrimSpace(body) == "" {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse caption track: %w", err)
	}

	var segs []Segment
	doc.Find("text").Each(func(_ int, sel *goquery.Selection) {
		// cue text is entity-encoded twice
		t := reBracketed.ReplaceAllString(html.UnescapeString(sel.Text()), "")
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			return
		}
		start, _ := sel.Attr("start")
		dur, _ := sel.Attr("dur")
		segs = append(segs, Segment{
			Start:    seconds(start),
			Duration: seconds(dur),
			Text:     t,
		})
	})
	return segs, nil
}

// trackLanguages lists the language codes with captions
func (y *youtubeSource) trackLanguages(ctx context.Context, id string) ([]string, error) {
	q := url.Values{"type": {"list"}, "v": {id}}
	body, err := y.get(ctx, "/api/timedtext?"+q.Encode())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse track list: %w", err)
	}

	var langs []string
	doc.Find("track").Each(func(_ int, sel *goquery.Selection) {
		if code, ok := sel.Attr("lang_code"); ok && code != "" {
			langs = append(langs, code)
		}
	})
	return langs, nil
}

// title asks oEmbed, then the watch page, and finally falls back to a
// generic name. It never fails.
func (y *youtubeSource) title(ctx context.Context, id string) string {
	q := url.Values{"url": {WatchURL(id)}, "format": {"json"}}
	if body, err := y.get(ctx, "/oembed?"+q.Encode()); err == nil {
		var oe struct {
			Title string `json:"title"`
		}
		if json.Unmarshal([]byte(body), &oe) == nil && strings.TrimSpace(oe.Title) != "" {
			return strings.TrimSpace(oe.Title)
		}
	}

	if body, err := y.get(ctx, "/watch?v="+url.QueryEscape(id)); err == nil {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
			if t, ok := doc.Find(`meta[name="title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
				return strings.TrimSpace(t)
			}
			if t := strings.TrimSuffix(strings.TrimSpace(doc.Find("title").First().Text()), " - YouTube"); t != "" {
				return t
			}
		}
	}

	y.logger.Debug(ctx, "No title found for %s", id)
	return "YouTube Video " + id
}

func (y *youtubeSource) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("request %s: status %d", req.URL.Path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	return string(data), nil
}

func seconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second)).Round(time.Millisecond)
}
