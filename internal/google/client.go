// Package google is a thin client for the Google OAuth, Gmail, and Calendar
// REST APIs. It deals only in plaintext access tokens; credential storage and
// refresh-token caching live in the services layer.
package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultGmailURL    = "https://gmail.googleapis.com/gmail/v1"
	defaultCalendarURL = "https://www.googleapis.com/calendar/v3"

	// Token exchange is on the command path, so it gets a short deadline
	refreshTimeout = 10 * time.Second
)

// Client calls Google APIs on behalf of a user
type Client struct {
	http         *http.Client
	clientID     string
	clientSecret string

	// Overridable for tests
	TokenURL    string
	GmailURL    string
	CalendarURL string

	// Observe, when set, is called after every API call with the operation
	// name and its outcome. The services layer hooks metrics in here.
	Observe func(operation string, err error)
}

func (c *Client) observe(operation string, err error) {
	if c.Observe != nil {
		c.Observe(operation, err)
	}
}

// NewClient creates a Google API client with the app's OAuth credentials
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
		GmailURL:     defaultGmailURL,
		CalendarURL:  defaultCalendarURL,
	}
}

// TokenResponse is the OAuth token endpoint response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// RefreshAccessToken exchanges a refresh token for a fresh access token
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (resp *TokenResponse, err error) {
	defer func() { c.observe("token_refresh", err) }()

	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("google oauth client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("token refresh failed (%d): %s", httpResp.StatusCode, truncate(string(body), 200))
	}

	var token TokenResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token refresh returned empty access token")
	}
	return &token, nil
}

// SendResult is the Gmail send response
type SendResult struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// SendEmail builds an RFC 822 message and sends it through Gmail
func (c *Client) SendEmail(ctx context.Context, accessToken, to, subject, body string) (*SendResult, error) {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s", to, subject, body)
	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	var result SendResult
	if err := c.doJSON(ctx, accessToken, "POST", "gmail_send", c.GmailURL+"/users/me/messages/send", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MessageRef is a Gmail list entry
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type messageListResponse struct {
	Messages []MessageRef `json:"messages"`
}

// ListMessages returns message refs matching a Gmail search query
func (c *Client) ListMessages(ctx context.Context, accessToken, query string, maxResults int) ([]MessageRef, error) {
	params := url.Values{
		"q":          {query},
		"maxResults": {fmt.Sprintf("%d", maxResults)},
	}

	var result messageListResponse
	endpoint := c.GmailURL + "/users/me/messages?" + params.Encode()
	if err := c.doJSON(ctx, accessToken, "GET", "gmail_list", endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// Message is a Gmail message with the metadata the mirror needs
type Message struct {
	ID           string   `json:"id"`
	ThreadID     string   `json:"threadId"`
	Snippet      string   `json:"snippet"`
	LabelIDs     []string `json:"labelIds"`
	InternalDate string   `json:"internalDate"`
	Payload      struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

// Header returns the first header with the given name, case-insensitive
func (m *Message) Header(name string) string {
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// HasLabel reports whether the message carries a Gmail label
func (m *Message) HasLabel(label string) bool {
	for _, l := range m.LabelIDs {
		if l == label {
			return true
		}
	}
	return false
}

// GetMessage fetches a single message's metadata headers
func (c *Client) GetMessage(ctx context.Context, accessToken, id string) (*Message, error) {
	params := url.Values{
		"format":          {"metadata"},
		"metadataHeaders": {"Subject", "From", "To", "Date"},
	}

	var msg Message
	endpoint := c.GmailURL + "/users/me/messages/" + id + "?" + params.Encode()
	if err := c.doJSON(ctx, accessToken, "GET", "gmail_get", endpoint, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EventTime is a calendar event boundary. DateTime is RFC 3339; all-day
// events use Date instead.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a Google Calendar event
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Status      string    `json:"status,omitempty"`
	HangoutLink string    `json:"hangoutLink,omitempty"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
}

// When returns the event start time, handling all-day events
func (e *Event) When() (time.Time, bool) {
	if e.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, e.Start.DateTime)
		return t, err == nil
	}
	if e.Start.Date != "" {
		t, err := time.Parse("2006-01-02", e.Start.Date)
		return t, err == nil
	}
	return time.Time{}, false
}

// Until returns the event end time, handling all-day events
func (e *Event) Until() (time.Time, bool) {
	if e.End.DateTime != "" {
		t, err := time.Parse(time.RFC3339, e.End.DateTime)
		return t, err == nil
	}
	if e.End.Date != "" {
		t, err := time.Parse("2006-01-02", e.End.Date)
		return t, err == nil
	}
	return time.Time{}, false
}

// CreateEvent inserts an event into the user's primary calendar
func (c *Client) CreateEvent(ctx context.Context, accessToken string, event *Event) (*Event, error) {
	var created Event
	endpoint := c.CalendarURL + "/calendars/primary/events"
	if err := c.doJSON(ctx, accessToken, "POST", "calendar_insert", endpoint, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type eventListResponse struct {
	Items []Event `json:"items"`
}

// ListEvents returns upcoming events between timeMin and timeMax, expanded to
// single instances in start order.
func (c *Client) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time) ([]Event, error) {
	params := url.Values{
		"timeMin":      {timeMin.Format(time.RFC3339)},
		"timeMax":      {timeMax.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
		"maxResults":   {"100"},
	}

	var result eventListResponse
	endpoint := c.CalendarURL + "/calendars/primary/events?" + params.Encode()
	if err := c.doJSON(ctx, accessToken, "GET", "calendar_list", endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// doJSON runs an authenticated JSON request and decodes the response into out
func (c *Client) doJSON(ctx context.Context, accessToken, method, operation, endpoint string, body, out interface{}) (err error) {
	defer func() { c.observe(operation, err) }()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("google api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google api error (%d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
