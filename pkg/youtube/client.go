package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/vidnotes/internal/models"
	"github.com/xhad/vidnotes/internal/types"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 * 1024 * 1024
	maxCaptionBytes      = 2 * 1024 * 1024
)

type ClientConfig = types.YouTubeConfig

// Client fetches caption transcripts from YouTube watch pages.
type Client struct {
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.Languages) == 0 {
		config.Languages = []string{"en"}
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript returns the full caption text of a video with segments
// joined by single spaces. Every failure is a *TranscriptError.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (models.Transcript, error) {
	page, err := c.get(ctx, c.config.BaseURL+"/watch?v="+url.QueryEscape(videoID), maxWatchPageBytes)
	if err != nil {
		return models.Transcript{}, unknown(videoID, fmt.Errorf("watch page: %w", err))
	}

	player, err := parsePlayerResponse(page)
	if err != nil {
		return models.Transcript{}, unknown(videoID, err)
	}

	if player.Captions == nil {
		if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			return models.Transcript{}, unknown(videoID, fmt.Errorf("video unavailable: %s %s", ps.Status, ps.Reason))
		}
		return models.Transcript{}, disabled(videoID)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return models.Transcript{}, disabled(videoID)
	}

	track, ok := pickTrack(tracks, c.config.Languages)
	if !ok {
		return models.Transcript{}, notFound(videoID, fmt.Errorf("no track for languages %v", c.config.Languages))
	}

	text, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return models.Transcript{}, unknown(videoID, err)
	}
	if text == "" {
		return models.Transcript{}, notFound(videoID, nil)
	}

	return models.Transcript{VideoID: videoID, Text: text}, nil
}

// pickTrack prefers a manual track over an auto-generated one, in the order
// of the requested languages.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return captionTrack{}, false
}

func parsePlayerResponse(page []byte) (*playerResponse, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var raw []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		raw = extractJSON([]byte(text[idx+len(playerResponseMarker):]))
		return raw == nil
	})
	if raw == nil {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}

	return &player, nil
}

// extractJSON returns the balanced JSON object at the start of data.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i, b := range data {
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case inString:
		case b == '{':
			depth++
		case b == '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}

func (c *Client) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	u, err := c.resolve(trackURL)
	if err != nil {
		return "", err
	}

	body, err := c.get(ctx, u, maxCaptionBytes)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid caption URL: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}

func (c *Client) get(ctx context.Context, u string, limit int64) ([]byte, error) {
	// Apply rate limiting
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, u)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
