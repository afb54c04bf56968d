package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const defaultTimeout = 20 * time.Second

// ErrNotConfigured is returned when the spreadsheet destination or the
// service-account credential is missing.
var ErrNotConfigured = errors.New("sheets: missing configuration")

// Config identifies the destination spreadsheet and the service-account
// credential used to authenticate the append call.
type Config struct {
	SpreadsheetID string
	// Tab is the sheet tab name the row is appended to.
	Tab                 string
	ServiceAccountEmail string
	// PrivateKey is the PEM-encoded signing key. Literal \n escapes (as env
	// vars usually carry them) are unescaped before use.
	PrivateKey string
	Timeout    time.Duration

	// Endpoint and HTTPClient override the Google API endpoint and transport.
	// When HTTPClient is set, service-account credentials are not required;
	// tests use this to point the writer at a fake server.
	Endpoint   string
	HTTPClient *http.Client
}

// Writer appends lead rows to a Google Sheet. The API service is built
// lazily on first use so that missing deployment configuration surfaces as a
// per-request error instead of failing startup.
type Writer struct {
	cfg     Config
	timeout time.Duration

	mu  sync.Mutex
	svc *sheetsapi.Service
}

// NewWriter creates a writer for the configured spreadsheet.
func NewWriter(cfg Config) *Writer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Writer{cfg: cfg, timeout: timeout}
}

// Append adds one row of values after the existing data in the configured
// tab. Exactly one network call is made; any failure is returned to the
// caller, which treats it as fatal for the submission.
func (w *Writer) Append(ctx context.Context, row []any) error {
	svc, err := w.service(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	valueRange := &sheetsapi.ValueRange{Values: [][]any{row}}
	_, err = svc.Spreadsheets.Values.
		Append(w.cfg.SpreadsheetID, w.cfg.Tab+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}

func (w *Writer) service(ctx context.Context) (*sheetsapi.Service, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.svc != nil {
		return w.svc, nil
	}

	if strings.TrimSpace(w.cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("%w: spreadsheet ID", ErrNotConfigured)
	}
	if strings.TrimSpace(w.cfg.Tab) == "" {
		return nil, fmt.Errorf("%w: sheet tab", ErrNotConfigured)
	}

	var opts []option.ClientOption
	if w.cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(w.cfg.HTTPClient))
	} else {
		email := strings.TrimSpace(w.cfg.ServiceAccountEmail)
		key := strings.ReplaceAll(w.cfg.PrivateKey, `\n`, "\n")
		if email == "" || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: service account credentials", ErrNotConfigured)
		}
		jwtCfg := &jwt.Config{
			Email:      email,
			PrivateKey: []byte(key),
			Scopes:     []string{sheetsapi.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = append(opts, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	}
	if w.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(w.cfg.Endpoint))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: build service: %w", err)
	}
	w.svc = svc
	return svc, nil
}
