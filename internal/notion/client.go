// Package notion is a minimal client for the Notion pages and database APIs
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIBase = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client calls the Notion API with an integration token
type Client struct {
	http  *http.Client
	token string

	// Overridable for tests
	BaseURL string

	// Observe, when set, is called after every API call with the operation
	// name and its outcome. The services layer hooks metrics in here.
	Observe func(operation string, err error)
}

func (c *Client) observe(operation string, err error) {
	if c.Observe != nil {
		c.Observe(operation, err)
	}
}

// NewClient creates a Notion client for one integration token
func NewClient(token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		BaseURL: defaultAPIBase,
	}
}

// Page is a simplified Notion page
type Page struct {
	ID             string
	URL            string
	Title          string
	Status         string
	Priority       string
	DueDate        string
	CreatedTime    string
	LastEditedTime string
}

// QueryDatabase returns up to pageSize pages from a database
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, pageSize int) ([]Page, error) {
	body := map[string]interface{}{
		"page_size": pageSize,
	}

	result, err := c.request(ctx, "POST", "database_query", "/databases/"+databaseID+"/query", body)
	if err != nil {
		return nil, err
	}

	results, _ := result["results"].([]interface{})
	pages := make([]Page, 0, len(results))
	for _, r := range results {
		if raw, ok := r.(map[string]interface{}); ok {
			pages = append(pages, simplifyPage(raw))
		}
	}
	return pages, nil
}

// CreatePage adds a task page to a database with a title and status
func (c *Client) CreatePage(ctx context.Context, databaseID, title, status string) (*Page, error) {
	body := map[string]interface{}{
		"parent": map[string]interface{}{
			"database_id": databaseID,
		},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": title}},
				},
			},
			"Status": map[string]interface{}{
				"status": map[string]string{"name": status},
			},
		},
	}

	result, err := c.request(ctx, "POST", "page_create", "/pages", body)
	if err != nil {
		return nil, err
	}
	page := simplifyPage(result)
	return &page, nil
}

func (c *Client) request(ctx context.Context, method, operation, endpoint string, body interface{}) (result map[string]interface{}, err error) {
	defer func() { c.observe(operation, err) }()
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		errMsg := "Notion API error"
		if msg, ok := result["message"].(string); ok {
			errMsg = msg
		}
		return nil, fmt.Errorf("%s (status %d)", errMsg, resp.StatusCode)
	}

	return result, nil
}

// simplifyPage flattens a raw page object to the fields the mirror tracks.
// Title comes from the Name or Title property, status from Status or Stage.
func simplifyPage(page map[string]interface{}) Page {
	p := Page{}
	p.ID, _ = page["id"].(string)
	p.URL, _ = page["url"].(string)
	p.CreatedTime, _ = page["created_time"].(string)
	p.LastEditedTime, _ = page["last_edited_time"].(string)

	props, ok := page["properties"].(map[string]interface{})
	if !ok {
		return p
	}

	for name, prop := range props {
		propMap, ok := prop.(map[string]interface{})
		if !ok {
			continue
		}
		propType, _ := propMap["type"].(string)

		switch propType {
		case "title":
			if name != "Name" && name != "Title" {
				continue
			}
			if titleArr, ok := propMap["title"].([]interface{}); ok && len(titleArr) > 0 {
				if titleObj, ok := titleArr[0].(map[string]interface{}); ok {
					p.Title, _ = titleObj["plain_text"].(string)
				}
			}
		case "status":
			if name != "Status" && name != "Stage" {
				continue
			}
			if status, ok := propMap["status"].(map[string]interface{}); ok {
				p.Status, _ = status["name"].(string)
			}
		case "select":
			sel, ok := propMap["select"].(map[string]interface{})
			if !ok {
				continue
			}
			switch name {
			case "Status", "Stage":
				p.Status, _ = sel["name"].(string)
			case "Priority":
				p.Priority, _ = sel["name"].(string)
			}
		case "date":
			if name != "Due" && name != "Due Date" && name != "Deadline" {
				continue
			}
			if dateObj, ok := propMap["date"].(map[string]interface{}); ok {
				p.DueDate, _ = dateObj["start"].(string)
			}
		}
	}

	return p
}
