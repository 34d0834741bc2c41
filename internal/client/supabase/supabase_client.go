package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
)

// Client talks to a Supabase-style record store: PostgREST rows under
// /rest/v1 and the auth endpoints under /auth/v1. Every operation is a
// single attempt with no retry.
type Client struct {
	baseUrl    string
	apiKey     string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// SetAuthToken switches record requests to the signed-in user's access
// token. An empty token reverts to the anon key.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func NewClient(baseUrl, apiKey string) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Select(collection string, query client.Query) ([]client.Row, error) {
	params := url.Values{}
	params.Set("select", selectClause(query.Embeds))
	if query.Order != nil {
		direction := "asc"
		if query.Order.Descending {
			direction = "desc"
		}
		params.Set("order", query.Order.Column+"."+direction)
	}
	for field, value := range query.Eq {
		params.Set(field, "eq."+value)
	}

	endpoint := c.baseUrl + "/rest/v1/" + collection + "?" + params.Encode()

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Error trying to read the body: %w", err)
	}

	var rows []client.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("Error trying to decode rows: %w", err)
	}

	return rows, nil
}

func (c *Client) Insert(collection string, payload client.Row) error {
	return c.write("POST", c.baseUrl+"/rest/v1/"+collection, payload)
}

func (c *Client) Update(collection string, id string, changes client.Row) error {
	endpoint := c.baseUrl + "/rest/v1/" + collection + "?id=eq." + url.QueryEscape(id)
	return c.write("PATCH", endpoint, changes)
}

func (c *Client) Delete(collection string, id string) error {
	endpoint := c.baseUrl + "/rest/v1/" + collection + "?id=eq." + url.QueryEscape(id)

	req, err := http.NewRequest("DELETE", endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.decodeError(resp)
	}

	return nil
}

func (c *Client) write(method, endpoint string, payload client.Row) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("Error trying to parse payload to Json: %w", err)
	}

	req, err := http.NewRequest(method, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	bearer := c.apiKey
	c.mu.RLock()
	if c.token != "" {
		bearer = c.token
	}
	c.mu.RUnlock()

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) decodeError(resp *http.Response) error {
	errorBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Error trying to read the body: %w", err)
	}

	var storeErr StoreError
	if err := json.Unmarshal(errorBody, &storeErr); err != nil {
		return fmt.Errorf("API error status %d", resp.StatusCode)
	}

	if storeErr.Message != "" {
		return fmt.Errorf("Store error: %s", storeErr.Message)
	}

	return fmt.Errorf("API error status %d", resp.StatusCode)
}

// selectClause builds the PostgREST select parameter, e.g.
// "*,assignee:profiles!assigned_to(name,email)".
func selectClause(embeds []client.Embed) string {
	parts := []string{"*"}
	for _, embed := range embeds {
		columns := "*"
		if len(embed.Columns) > 0 {
			columns = strings.Join(embed.Columns, ",")
		}
		parts = append(parts, fmt.Sprintf("%s:%s!%s(%s)", embed.Alias, embed.Table, embed.ForeignKey, columns))
	}
	return strings.Join(parts, ",")
}

func (c *Client) SignIn(email, password string) (client.Session, error) {
	return c.auth(c.baseUrl+"/auth/v1/token?grant_type=password", SignInRequest{
		Email:    email,
		Password: password,
	})
}

func (c *Client) SignUp(email, password, name string) (client.Session, error) {
	return c.auth(c.baseUrl+"/auth/v1/signup", SignUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]any{"name": name},
	})
}

func (c *Client) auth(endpoint string, payload any) (client.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return client.Session{}, err
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return client.Session{}, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return client.Session{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return client.Session{}, fmt.Errorf("Error trying to read the body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var authErr AuthError
		if err := json.Unmarshal(respBody, &authErr); err == nil {
			if authErr.Message != "" {
				return client.Session{}, fmt.Errorf("Auth error: %s", authErr.Message)
			}
			if authErr.ErrorDescription != "" {
				return client.Session{}, fmt.Errorf("Auth error: %s", authErr.ErrorDescription)
			}
		}
		return client.Session{}, fmt.Errorf("Auth error status %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.Unmarshal(respBody, &authResp); err != nil {
		return client.Session{}, fmt.Errorf("Error trying to decode auth response: %w", err)
	}

	return client.Session{
		AccessToken: authResp.AccessToken,
		User:        userFromAuth(authResp.User),
	}, nil
}

func userFromAuth(raw AuthUser) models.User {
	user := models.User{
		Id:       raw.Id,
		Email:    raw.Email,
		Name:     raw.Metadata.Name,
		Role:     raw.Metadata.Role,
		Teams:    []string{},
		IsActive: true,
	}
	if user.Name == "" {
		user.Name = raw.Email
	}
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	if created, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
		user.CreatedAt = created
	}
	return user
}
