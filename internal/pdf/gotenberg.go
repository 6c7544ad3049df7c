// Package pdf converts report HTML to PDF through a Gotenberg instance.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
	"time"
)

const (
	chromiumHTMLRoute = "/forms/chromium/convert/html"
	requestTimeout    = 60 * time.Second
	maxPDFBytes       = 20 << 20
	maxErrorBody      = 4096

	// A4 in inches.
	a4Width  = "8.27"
	a4Height = "11.7"
)

// Converter turns a self-contained HTML document into PDF bytes.
type Converter interface {
	ConvertHTML(ctx context.Context, indexHTML []byte, opts ConvertOpts) ([]byte, error)
}

// ConvertOpts are Chromium page settings. Sizes are in inches; empty values
// leave the Gotenberg default.
type ConvertOpts struct {
	PaperWidth   string
	PaperHeight  string
	MarginTop    string
	MarginBottom string
	MarginLeft   string
	MarginRight  string
	// WaitDelay lets web fonts load before capture, e.g. "1s".
	WaitDelay string
}

// ReportOpts is the A4 layout of the recommendation report.
func ReportOpts() ConvertOpts {
	return ConvertOpts{
		PaperWidth:   a4Width,
		PaperHeight:  a4Height,
		MarginTop:    "0.6",
		MarginBottom: "0.6",
		MarginLeft:   "0.5",
		MarginRight:  "0.5",
		WaitDelay:    "1s",
	}
}

func (o ConvertOpts) formFields() map[string]string {
	fields := map[string]string{"printBackground": "true"}
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("paperWidth", o.PaperWidth)
	set("paperHeight", o.PaperHeight)
	set("marginTop", o.MarginTop)
	set("marginBottom", o.MarginBottom)
	set("marginLeft", o.MarginLeft)
	set("marginRight", o.MarginRight)
	if o.WaitDelay != "" {
		fields["waitDelay"] = o.WaitDelay
		fields["skipNetworkIdleEvent"] = "true"
	}
	return fields
}

// StatusError is returned when Gotenberg answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gotenberg returned %d: %s", e.StatusCode, e.Body)
}

// GotenbergClient talks to the Chromium HTML route of a Gotenberg instance.
type GotenbergClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewGotenbergClient sends HTTP Basic Auth only when both username and
// password are set.
func NewGotenbergClient(baseURL, username, password string) *GotenbergClient {
	return &GotenbergClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

func (g *GotenbergClient) ConvertHTML(ctx context.Context, indexHTML []byte, opts ConvertOpts) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := opts.formFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, fields[k]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	// Gotenberg requires the entry document to be named index.html.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="index.html"`)
	h.Set("Content-Type", "text/html; charset=utf-8")
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create index.html part: %w", err)
	}
	if _, err := part.Write(indexHTML); err != nil {
		return nil, fmt.Errorf("write index.html part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+chromiumHTMLRoute, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if g.username != "" && g.password != "" {
		req.SetBasicAuth(g.username, g.password)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotenberg convert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read gotenberg response: %w", err)
	}
	if len(out) > maxPDFBytes {
		return nil, fmt.Errorf("gotenberg response exceeds %d bytes", maxPDFBytes)
	}
	return out, nil
}

var _ Converter = (*GotenbergClient)(nil)
