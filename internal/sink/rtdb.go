package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"execlink/internal/canonical"
)

const userAgent = "execlink/0.1.0"

// RTDBSink writes the document tree of a Firebase-style realtime database:
// person records under executives/<person_key> and attribution links under
// person_companies/<company_key>/<person_key>.
type RTDBSink struct {
	baseURL   string
	authToken string
	client    *http.Client
}

// NewRTDBSink builds a sink for the given database root URL.
func NewRTDBSink(baseURL, authToken string, timeoutSeconds int) *RTDBSink {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RTDBSink{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *RTDBSink) Name() string {
	return "rtdb:" + s.baseURL
}

func (s *RTDBSink) Upload(ctx context.Context, persons []canonical.PersonRecord, links []canonical.CompanyLink) (Result, error) {
	var result Result
	for _, person := range persons {
		if err := s.put(ctx, "executives/"+person.PersonKey, person); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failures = append(result.Failures, fmt.Sprintf("person %s: %v", person.PersonKey, err))
			continue
		}
		result.Persons++
	}
	for _, link := range links {
		path := "person_companies/" + link.CompanyKey + "/" + link.PersonKey
		if err := s.put(ctx, path, link); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failures = append(result.Failures, fmt.Sprintf("link %s/%s: %v", link.CompanyKey, link.PersonKey, err))
			continue
		}
		result.Links++
	}
	return result, nil
}

func (s *RTDBSink) put(ctx context.Context, path string, document any) error {
	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	target := s.baseURL + "/" + path + ".json"
	if s.authToken != "" {
		target += "?auth=" + url.QueryEscape(s.authToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build rtdb request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("rtdb returned %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
