package enrollment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// RosterEntry is one enrolled student as reported by the course service.
type RosterEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Provider is the external enrollment collaborator. The engine only ever
// asks two questions of it: is this student enrolled, and who is enrolled.
type Provider interface {
	IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error)
	ListRoster(ctx context.Context, courseID uint) ([]RosterEntry, error)
}

type httpProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider returns a Provider backed by the course service's REST API.
func NewHTTPProvider(baseURL string) Provider {
	return &httpProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *httpProvider) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/courses/%d/enrollments/%s",
		p.baseURL, courseID, url.PathEscape(studentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("enrollment lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("enrollment lookup returned status %d", resp.StatusCode)
	}
}

func (p *httpProvider) ListRoster(ctx context.Context, courseID uint) ([]RosterEntry, error) {
	endpoint := fmt.Sprintf("%s/api/v1/courses/%d/roster", p.baseURL, courseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roster lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster lookup returned status %d", resp.StatusCode)
	}

	var roster []RosterEntry
	if err := json.NewDecoder(resp.Body).Decode(&roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return roster, nil
}
