package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	// MaxDownloadBytes is the Bot API download ceiling.
	MaxDownloadBytes = 20 * 1024 * 1024

	ParseModeMarkdown = "Markdown"

	filePathTTL = time.Hour
)

// Client talks to the Bot API over plain HTTPS.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	files   *cache.Cache
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		files:   cache.New(filePathTTL, 10*time.Minute),
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) do(req *http.Request, method string) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var out apiResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.OK {
		apiErr := &APIError{Method: method, Code: out.ErrorCode, Description: out.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if decodeErr != nil || apiErr.Description == "" {
			apiErr.Description = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}
	return out.Result, nil
}

// SendMessage sends Markdown text with an optional inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	b, err := json.Marshal(sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, "sendMessage")
	return err
}

// SendPhoto uploads image bytes as a photo.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup *InlineKeyboardMarkup) error {
	return c.upload(ctx, "sendPhoto", "photo", "image.jpg", bytes.NewReader(photo), chatID, caption, markup)
}

// SendDocument streams a file from disk as a document.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filePath, filename, caption string, markup *InlineKeyboardMarkup) error {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return fmt.Errorf("missing file path")
	}
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("path is a directory: %s", filePath)
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = filepath.Base(filePath)
	}
	return c.upload(ctx, "sendDocument", "document", filename, f, chatID, caption, markup)
}

func (c *Client) upload(ctx context.Context, method, field, filename string, body io.Reader, chatID int64, caption string, markup *InlineKeyboardMarkup) error {
	var markupJSON []byte
	if markup != nil {
		b, err := json.Marshal(markup)
		if err != nil {
			return err
		}
		markupJSON = b
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		_ = mw.WriteField("chat_id", strconv.FormatInt(chatID, 10))
		if caption = strings.TrimSpace(caption); caption != "" {
			_ = mw.WriteField("caption", caption)
		}
		if markupJSON != nil {
			_ = mw.WriteField("reply_markup", string(markupJSON))
		}
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), pr)
	if err != nil {
		_ = pr.Close()
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(req, method)
	_ = pr.Close()
	return err
}

// GetFile resolves a file id to its download path. Paths stay valid for at
// least an hour, so they are cached for that long.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, ErrMissingFileID
	}
	if cached, ok := c.files.Get(fileID); ok {
		f := cached.(File)
		return &f, nil
	}

	u := c.methodURL("getFile") + "?file_id=" + url.QueryEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(req, "getFile")
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("telegram getFile: %w", err)
	}
	if strings.TrimSpace(f.FilePath) == "" {
		return nil, ErrMissingFilePath
	}
	c.files.Set(fileID, f, cache.DefaultExpiration)
	return &f, nil
}

// DownloadFile fetches a file path returned by GetFile, refusing bodies
// larger than maxBytes.
func (c *Client) DownloadFile(ctx context.Context, filePath string, maxBytes int64) ([]byte, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, ErrMissingFilePath
	}
	if maxBytes <= 0 {
		maxBytes = MaxDownloadBytes
	}

	u := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, strings.TrimLeft(filePath, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Method: "download", Code: resp.StatusCode, Description: strings.TrimSpace(string(raw))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (>%d bytes)", ErrFileTooLarge, maxBytes)
	}
	return data, nil
}

// Download resolves and downloads a file id in one step.
func (c *Client) Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	f, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && f.FileSize > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, f.FileSize)
	}
	return c.DownloadFile(ctx, f.FilePath, maxBytes)
}
