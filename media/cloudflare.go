package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"encore/types"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL      = "https://api.cloudflare.com/client/v4"
	DefaultPollAttempts = 5
	DefaultPollInterval = time.Second
)

type CloudflareOptions struct {
	BaseURL      string
	AccountID    string
	ImagesToken  string
	StreamToken  string
	PollAttempts int
	PollInterval time.Duration
	Client       *http.Client
	Logger       *zap.Logger
}

// Cloudflare uploads images to Cloudflare Images and videos to Cloudflare Stream.
type Cloudflare struct {
	opts CloudflareOptions
}

func NewCloudflare(opts CloudflareOptions) *Cloudflare {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	if opts.PollAttempts <= 0 {
		opts.PollAttempts = DefaultPollAttempts
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Minute}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Cloudflare{opts: opts}
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiResponse[T any] struct {
	Success bool         `json:"success"`
	Errors  []apiMessage `json:"errors"`
	Result  T            `json:"result"`
}

type imageResult struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Variants []string `json:"variants"`
}

type videoResult struct {
	UID           string  `json:"uid"`
	Thumbnail     string  `json:"thumbnail"`
	ReadyToStream bool    `json:"readyToStream"`
	Duration      float64 `json:"duration"`
	Playback      struct {
		HLS  string `json:"hls"`
		Dash string `json:"dash"`
	} `json:"playback"`
}

func (c *Cloudflare) UploadImage(ctx context.Context, name string, r io.Reader) (*Asset, error) {
	url := fmt.Sprintf("%s/accounts/%s/images/v1", c.opts.BaseURL, c.opts.AccountID)

	var resp apiResponse[imageResult]
	if err := c.upload(ctx, url, c.opts.ImagesToken, name, r, &resp); err != nil {
		return nil, err
	}

	if len(resp.Result.Variants) == 0 {
		return nil, errors.New("image service returned no variants")
	}

	return &Asset{
		Item: types.MediaItem{
			URL:  resp.Result.Variants[0],
			Type: types.MediaTypeImage,
		},
		Ready: true,
	}, nil
}

func (c *Cloudflare) UploadVideo(ctx context.Context, name string, r io.Reader) (*Asset, error) {
	url := fmt.Sprintf("%s/accounts/%s/stream", c.opts.BaseURL, c.opts.AccountID)

	var resp apiResponse[videoResult]
	if err := c.upload(ctx, url, c.opts.StreamToken, name, r, &resp); err != nil {
		return nil, err
	}

	video := resp.Result
	if !video.ReadyToStream {
		video = c.waitForVideo(ctx, video)
	}

	return videoAsset(video), nil
}

// Polls the video until it can be streamed. Failures are logged and the last
// known state is returned so the upload itself still succeeds.
func (c *Cloudflare) waitForVideo(ctx context.Context, video videoResult) videoResult {
	url := fmt.Sprintf("%s/accounts/%s/stream/%s", c.opts.BaseURL, c.opts.AccountID, video.UID)

	for attempt := 1; attempt <= c.opts.PollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return video
		case <-time.After(c.opts.PollInterval):
		}

		var resp apiResponse[videoResult]
		if err := c.do(ctx, http.MethodGet, url, c.opts.StreamToken, "", nil, &resp); err != nil {
			c.opts.Logger.Warn("Failed to poll video status", zap.String("uid", video.UID), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		video = resp.Result
		if video.ReadyToStream {
			return video
		}
	}

	return video
}

func videoAsset(v videoResult) *Asset {
	item := types.MediaItem{
		URL:          v.Playback.HLS,
		Type:         types.MediaTypeVideo,
		ThumbnailURL: v.Thumbnail,
	}

	if v.Duration > 0 {
		item.Duration = v.Duration
	}

	return &Asset{Item: item, Ready: v.ReadyToStream}
}

// Streams r as a single multipart "file" field.
func (c *Cloudflare) upload(ctx context.Context, url, token, name string, r io.Reader, dst any) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	return c.do(ctx, http.MethodPost, url, token, mw.FormDataContentType(), pr, dst)
}

func (c *Cloudflare) do(ctx context.Context, method, url, token, contentType string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var envelope apiResponse[any]
	if err := jsonimpl.Unmarshal(bytes, &envelope); err != nil {
		return fmt.Errorf("media service returned status %d with an unreadable body: %w", res.StatusCode, err)
	}

	if res.StatusCode >= 300 || !envelope.Success {
		msg := http.StatusText(res.StatusCode)
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
		return fmt.Errorf("media service error (%d): %s", res.StatusCode, msg)
	}

	return jsonimpl.Unmarshal(bytes, dst)
}
