package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// ErrUnauthorized signals a missing or expired session. Callers clear local
// auth state and prompt for a fresh login when they see it.
var ErrUnauthorized = errors.New("not signed in")

// Client is the backend surface the panel and CLI talk to.
type Client interface {
	Login(ctx context.Context) (string, error)
	Profile(ctx context.Context) (User, error)
	GenerateNote(ctx context.Context, text, url string) (string, error)
	Dialogue(ctx context.Context, userPrint, pageID string) (string, error)
	Notebooks(ctx context.Context) ([]Notebook, error)
	Sections(ctx context.Context, notebookID string) ([]Section, error)
	Pages(ctx context.Context, sectionID string) ([]Page, error)
	CreatePage(ctx context.Context, sectionID, title, content string) (string, error)
	AppendPage(ctx context.Context, pageID, content string) error
	CreateSection(ctx context.Context, notebookID, displayName string) error
	PageSummary(ctx context.Context, pageID string) (string, error)
	ReviewQuestions(ctx context.Context, pageID string, n int) ([]Question, error)
	AnalyzeAnswers(ctx context.Context, pageID string, answers []Answer) (string, error)
}

// HTTPClient implements Client against the ReadNote backend. Session cookies
// ride in the jar; the note endpoint additionally wants a bearer token.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPClient creates a client for the given backend base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}
}

// SetToken sets the bearer token used for token-authenticated endpoints.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Login asks the backend for the authorization URL to open in a browser.
func (c *HTTPClient) Login(ctx context.Context) (string, error) {
	var result struct {
		LoginURL string `json:"login_url"`
	}
	if err := c.getJSON(ctx, "/login", &result); err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	return result.LoginURL, nil
}

// Profile returns the signed-in user, or ErrUnauthorized.
func (c *HTTPClient) Profile(ctx context.Context) (User, error) {
	var result struct {
		User User `json:"user"`
	}
	if err := c.getJSON(ctx, "/profile", &result); err != nil {
		return User{}, err
	}
	return result.User, nil
}

// GenerateNote sends selected text for note generation.
func (c *HTTPClient) GenerateNote(ctx context.Context, text, url string) (string, error) {
	var result struct {
		Note string `json:"note"`
	}
	err := c.postJSON(ctx, "/api/note", map[string]string{
		"text": text,
		"url":  url,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Note, nil
}

// Dialogue runs one chat round against the selected page.
func (c *HTTPClient) Dialogue(ctx context.Context, userPrint, pageID string) (string, error) {
	var result struct {
		Replay string `json:"replay"`
	}
	err := c.postJSON(ctx, "/api/dialogue", map[string]string{
		"user_print": userPrint,
		"page_id":    pageID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Replay, nil
}

// Notebooks lists the user's notebooks.
func (c *HTTPClient) Notebooks(ctx context.Context) ([]Notebook, error) {
	var notebooks []Notebook
	if err := c.getJSON(ctx, "/api/notebooks", &notebooks); err != nil {
		return nil, err
	}
	return notebooks, nil
}

// Sections lists the sections of a notebook.
func (c *HTTPClient) Sections(ctx context.Context, notebookID string) ([]Section, error) {
	var sections []Section
	if err := c.getJSON(ctx, "/api/sections/"+notebookID, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// Pages lists the pages of a section.
func (c *HTTPClient) Pages(ctx context.Context, sectionID string) ([]Page, error) {
	var pages []Page
	if err := c.getJSON(ctx, "/api/pages/"+sectionID, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// CreatePage creates a page and returns its ID.
func (c *HTTPClient) CreatePage(ctx context.Context, sectionID, title, content string) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	err := c.postJSON(ctx, "/api/create-page", map[string]string{
		"section_id": sectionID,
		"title":      title,
		"content":    content,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

// AppendPage appends content to an existing page.
func (c *HTTPClient) AppendPage(ctx context.Context, pageID, content string) error {
	return c.postJSON(ctx, "/api/append-page", map[string]string{
		"page_id":     pageID,
		"pageContent": content,
	}, nil)
}

// CreateSection creates a section inside a notebook.
func (c *HTTPClient) CreateSection(ctx context.Context, notebookID, displayName string) error {
	return c.postJSON(ctx, "/api/create-section", map[string]string{
		"displayName": displayName,
		"notebook_id": notebookID,
	}, nil)
}

// PageSummary generates a summary of the given page.
func (c *HTTPClient) PageSummary(ctx context.Context, pageID string) (string, error) {
	var result struct {
		PageSummary string `json:"pagesummary"`
	}
	err := c.postJSON(ctx, "/api/page-summary", map[string]string{
		"page_id": pageID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.PageSummary, nil
}

// ReviewQuestions generates n review questions for the page. The backend
// sometimes returns the array JSON-encoded inside a string; both shapes are
// accepted.
func (c *HTTPClient) ReviewQuestions(ctx context.Context, pageID string, n int) ([]Question, error) {
	var result struct {
		Questions json.RawMessage `json:"questions"`
	}
	err := c.postJSON(ctx, "/api/review-questions", map[string]any{
		"page_id":      pageID,
		"question_num": n,
	}, &result)
	if err != nil {
		return nil, err
	}
	return decodeQuestions(result.Questions)
}

func decodeQuestions(raw json.RawMessage) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err == nil {
		return questions, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("unexpected questions payload: %s", string(raw))
	}
	if err := json.Unmarshal([]byte(encoded), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}
	return questions, nil
}

// AnalyzeAnswers submits the buffered answers for batch analysis.
func (c *HTTPClient) AnalyzeAnswers(ctx context.Context, pageID string, answers []Answer) (string, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal answers: %w", err)
	}

	var result struct {
		OverallSuggestions string `json:"overall_suggestions"`
	}
	err = c.postJSON(ctx, "/api/analyze-answers", map[string]string{
		"question_a_answer": string(encoded),
		"page_id":           pageID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.OverallSuggestions, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend returned malformed JSON: %w", err)
	}
	return nil
}
