package remote

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

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

// APIError represents a non-2xx response from the ask API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("ask api error: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("ask api error: %s (%d)", e.Code, e.Status)
	}
	if e.Message != "" {
		return fmt.Sprintf("ask api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ask api error (%d)", e.Status)
}

// UserMessage is the text worth showing to a user, if the server sent one.
func (e *APIError) UserMessage() string {
	return strings.TrimSpace(e.Message)
}

// Unauthorized reports a revoked session or guild access.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client calls the ask procedures over JSON/HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs an ask API client.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: normalized,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// NormalizeBaseURL normalizes the API base URL and ensures it has a scheme.
func NormalizeBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("api url cannot be empty")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("api url must include scheme (https://)")
	}
	return strings.TrimRight(value, "/"), nil
}

type serverRequest struct {
	ServerID string `json:"serverId"`
}

type conversationRequest struct {
	ServerID       string `json:"serverId"`
	ConversationID string `json:"conversationId"`
}

type conversationResponse struct {
	Conversation ask.Conversation `json:"conversation"`
}

type listResponse struct {
	Conversations []ask.Conversation `json:"conversations"`
}

type sharedListResponse struct {
	Conversations []ask.SharedConversationSummary `json:"conversations"`
}

func (c *Client) ListConversations(ctx context.Context, serverID string) ([]ask.Conversation, error) {
	var resp listResponse
	if err := c.call(ctx, "ask.listConversations", serverRequest{ServerID: serverID}, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

func (c *Client) ListArchivedConversations(ctx context.Context, serverID string) ([]ask.Conversation, error) {
	var resp listResponse
	if err := c.call(ctx, "ask.listArchivedConversations", serverRequest{ServerID: serverID}, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

func (c *Client) ListSharedConversations(ctx context.Context, serverID string) ([]ask.SharedConversationSummary, error) {
	var resp sharedListResponse
	if err := c.call(ctx, "ask.listSharedConversations", serverRequest{ServerID: serverID}, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

func (c *Client) GetConversation(ctx context.Context, serverID, conversationID string) (ask.Thread, error) {
	var resp ask.Thread
	req := conversationRequest{ServerID: serverID, ConversationID: conversationID}
	if err := c.call(ctx, "ask.getConversation", req, &resp); err != nil {
		return ask.Thread{}, err
	}
	return resp, nil
}

// AskRequest submits a question, optionally continuing a conversation.
type AskRequest struct {
	ServerID        string `json:"serverId"`
	Question        string `json:"question"`
	ConversationID  string `json:"conversationId,omitempty"`
	ClientRequestID string `json:"clientRequestId,omitempty"`
}

type AskResponse struct {
	ConversationID string           `json:"conversationId"`
	Conversation   ask.Conversation `json:"conversation"`
	Messages       []ask.Message    `json:"messages"`
}

func (c *Client) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	var resp AskResponse
	if err := c.call(ctx, "ask.ask", req, &resp); err != nil {
		return AskResponse{}, err
	}
	if resp.ConversationID == "" {
		resp.ConversationID = resp.Conversation.ID
	}
	return resp, nil
}

func (c *Client) Rename(ctx context.Context, serverID, conversationID, title string) (ask.Conversation, error) {
	req := struct {
		conversationRequest
		Title string `json:"title"`
	}{conversationRequest{serverID, conversationID}, title}
	var resp conversationResponse
	if err := c.call(ctx, "ask.rename", req, &resp); err != nil {
		return ask.Conversation{}, err
	}
	return resp.Conversation, nil
}

func (c *Client) SetArchived(ctx context.Context, serverID, conversationID string, archived bool) (ask.Conversation, error) {
	req := struct {
		conversationRequest
		Archived bool `json:"archived"`
	}{conversationRequest{serverID, conversationID}, archived}
	var resp conversationResponse
	if err := c.call(ctx, "ask.setArchived", req, &resp); err != nil {
		return ask.Conversation{}, err
	}
	return resp.Conversation, nil
}

func (c *Client) SetVisibility(ctx context.Context, serverID, conversationID string, visibility ask.Visibility) (ask.Conversation, error) {
	req := struct {
		conversationRequest
		Visibility ask.Visibility `json:"visibility"`
	}{conversationRequest{serverID, conversationID}, visibility}
	var resp conversationResponse
	if err := c.call(ctx, "ask.setVisibility", req, &resp); err != nil {
		return ask.Conversation{}, err
	}
	return resp.Conversation, nil
}

func (c *Client) call(ctx context.Context, procedure string, reqBody any, respBody any) error {
	endpoint, err := c.buildURL("/rpc/" + procedure)
	if err != nil {
		return err
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", procedure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", procedure, err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", procedure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload apiErrorPayload
		if err := json.Unmarshal(respData, &payload); err == nil {
			apiErr.Code = payload.Error
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(respData))
		}
		return apiErr
	}

	if respBody == nil || len(respData) == 0 {
		return nil
	}
	if err := json.Unmarshal(respData, respBody); err != nil {
		return fmt.Errorf("decode %s response: %w", procedure, err)
	}
	return nil
}

func (c *Client) buildURL(path string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
