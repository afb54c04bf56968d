package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	leadAddPath      = "crm.lead.add.json"
	defaultTimeout   = 12 * time.Second
	defaultUserAgent = "crescentview-leadgate/0.1"
	snippetLimit     = 200
)

var tracer = otel.Tracer("leadgate.internal.bitrix")

// ErrNotConfigured is returned by New when the webhook URL is missing.
var ErrNotConfigured = errors.New("bitrix: webhook URL not configured")

// Config controls how the Bitrix client behaves.
type Config struct {
	// WebhookURL is the inbound webhook base, e.g.
	// https://portal.bitrix24.com/rest/1/token/. The lead-add method path is
	// appended to it.
	WebhookURL string
	// Timeout applies to each encoding attempt independently.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the Bitrix24 crm.lead.add webhook method.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.WebhookURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		url:        base + leadAddPath,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// encoding is one request-body variant. Variants are attempted in order and
// the first success wins; the success predicate is shared (2xx status plus a
// JSON body with a numeric result field).
type encoding struct {
	name        string
	contentType string
	encode      func(req leadAddRequest) ([]byte, error)
}

var encodings = []encoding{
	{
		name:        "json",
		contentType: "application/json",
		encode: func(req leadAddRequest) ([]byte, error) {
			return json.Marshal(req)
		},
	},
	{
		name:        "form",
		contentType: "application/x-www-form-urlencoded",
		encode:      encodeForm,
	},
}

// AddLead creates a lead in the CRM, trying the JSON encoding first and
// falling back to a flattened form-urlencoded body when the first attempt
// does not produce the expected success shape. Each attempt carries its own
// timeout.
func (c *Client) AddLead(ctx context.Context, lead Lead) (*LeadResult, error) {
	ctx, span := tracer.Start(ctx, "bitrix.lead.add", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req := leadAddRequest{Fields: lead.fields()}

	var lastErr error
	for _, enc := range encodings {
		body, err := enc.encode(req)
		if err != nil {
			return nil, fmt.Errorf("bitrix: encode %s payload: %w", enc.name, err)
		}
		id, err := c.attempt(ctx, body, enc.contentType)
		if err == nil {
			span.SetAttributes(attribute.String("bitrix.encoding", enc.name), attribute.Int("bitrix.lead_id", id))
			return &LeadResult{ID: id, Encoding: enc.name}, nil
		}
		if ctx.Err() != nil {
			span.RecordError(ctx.Err())
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Warn("bitrix lead add attempt failed", "encoding", enc.name, "error", err)
	}
	span.RecordError(lastErr)
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, body []byte, contentType string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("bitrix: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("bitrix: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("bitrix: read response: %w", err)
	}

	var parsed struct {
		Result           *json.Number `json:"result"`
		Error            string       `json:"error"`
		ErrorDescription string       `json:"error_description"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("bitrix: non-JSON response: %s", snippet(data))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && parsed.Result != nil {
		id, err := parsed.Result.Int64()
		if err != nil {
			return 0, fmt.Errorf("bitrix: non-numeric result: %s", snippet(data))
		}
		return int(id), nil
	}

	switch {
	case parsed.ErrorDescription != "":
		return 0, fmt.Errorf("bitrix: %s", parsed.ErrorDescription)
	case parsed.Error != "":
		return 0, fmt.Errorf("bitrix: %s", parsed.Error)
	default:
		return 0, fmt.Errorf("bitrix: HTTP %d %s", resp.StatusCode, snippet(data))
	}
}

// encodeForm flattens the nested field map using bracket-index notation, e.g.
// fields[PHONE][0][VALUE]=+971 501234567.
func encodeForm(req leadAddRequest) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	params := url.Values{}
	for key, value := range generic {
		flatten(params, key, value)
	}
	return []byte(params.Encode()), nil
}

func flatten(params url.Values, prefix string, value any) {
	switch v := value.(type) {
	case []any:
		for i, item := range v {
			flatten(params, prefix+"["+strconv.Itoa(i)+"]", item)
		}
	case map[string]any:
		for k, item := range v {
			flatten(params, prefix+"["+k+"]", item)
		}
	case nil:
		// skip
	case float64:
		params.Add(prefix, strconv.FormatFloat(v, 'f', -1, 64))
	default:
		params.Add(prefix, fmt.Sprint(v))
	}
}

func snippet(data []byte) string {
	s := string(data)
	if len(s) > snippetLimit {
		s = s[:snippetLimit]
	}
	return s
}
