// Package oracle asks a vision model, over an OpenAI compatible
// chat-completions API, what kind of image it is looking at and how the
// rows of a sprite sheet should be named.
package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/setanarut/spritemeta"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1"
	DefaultModel    = "gpt-4o"
	// Images are downscaled so that neither side exceeds this before upload.
	MaxUploadSide = 1024
)

const instruction = "Analyze this image and determine if it is a single sprite, a background image, or a sprite sheet. " +
	"If it is a sprite sheet, suggest animation names for each row, top to bottom (e.g., Idle, Walk, Attack), " +
	"and a character name (e.g., Player, Enemy, NPC). " +
	"Return JSON with 'image_type' (single_sprite, background, sprite_sheet), " +
	"'animation_names' (list of strings) and 'character_name' (string)."

// Client implements spritemeta.Oracle.
type Client struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		Model:      DefaultModel,
		Endpoint:   DefaultEndpoint,
		HTTPClient: http.DefaultClient,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends img to the model. Every failure is wrapped in
// spritemeta.ErrOracleUnavailable.
func (c *Client) Classify(ctx context.Context, img image.Image) (*spritemeta.OracleResult, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: no api key", spritemeta.ErrOracleUnavailable)
	}
	dataURL, err := encodeDataURL(img)
	if err != nil {
		return nil, fmt.Errorf("%w: encode image: %w", spritemeta.ErrOracleUnavailable, err)
	}
	body, err := json.Marshal(chatRequest{
		Model: c.model(),
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: instruction},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", spritemeta.ErrOracleUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint()+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", spritemeta.ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", spritemeta.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", spritemeta.ErrOracleUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", spritemeta.ErrOracleUnavailable, resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", spritemeta.ErrOracleUnavailable, err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", spritemeta.ErrOracleUnavailable)
	}
	return ParseReply(cr.Choices[0].Message.Content)
}

func (c *Client) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return strings.TrimRight(c.Endpoint, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// encodeDataURL encodes img as a base64 PNG data URL, downscaled to
// MaxUploadSide when larger.
func encodeDataURL(img image.Image) (string, error) {
	b := img.Bounds()
	if side := max(b.Dx(), b.Dy()); side > MaxUploadSide {
		w := max(1, b.Dx()*MaxUploadSide/side)
		h := max(1, b.Dy()*MaxUploadSide/side)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
