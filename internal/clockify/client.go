package clockify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

const BaseURL = "https://api.clockify.me/api/v1"

type Client struct {
	apiKey      string
	workspaceID string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(apiKey, workspaceID, proxyURL string) *Client {
	return NewClientWithBaseURL(apiKey, workspaceID, proxyURL, BaseURL)
}

func NewClientWithBaseURL(apiKey, workspaceID, proxyURL, baseURL string) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" && proxyURL != "false" {
		if proxyParsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyParsed)
		}
	}

	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		apiKey:      apiKey,
		workspaceID: workspaceID,
		baseURL:     baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

func (c *Client) doRequest(method, endpoint string, params map[string]string, payload interface{}) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, reqURL.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Error("clockify api error", "status", resp.StatusCode, "endpoint", endpoint, "body", string(respBody))
		return nil, fmt.Errorf("clockify api returned status %d", resp.StatusCode)
	}

	return respBody, nil
}

// --- API Response Types ---

type User struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Settings UserSettings `json:"settings"`
}

type UserSettings struct {
	WeekStart string `json:"weekStart"`
	TimeZone  string `json:"timeZone"`
}

type timeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type tagData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type projectData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type taskData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type timeEntryData struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	Billable     bool         `json:"billable"`
	Type         string       `json:"type"`
	ProjectID    string       `json:"projectId"`
	TaskID       string       `json:"taskId"`
	Project      *projectData `json:"project"`
	Task         *taskData    `json:"task"`
	Tags         []tagData    `json:"tags"`
	TimeInterval timeInterval `json:"timeInterval"`
}

type memberProfileData struct {
	WeekStart    string `json:"weekStart"`
	WorkCapacity string `json:"workCapacity"`
	WorkingDays  string `json:"workingDays"`
}

func (d *timeEntryData) toModel() (*models.TimeEntry, error) {
	start, err := time.Parse(time.RFC3339, d.TimeInterval.Start)
	if err != nil {
		return nil, fmt.Errorf("entry %s: bad start %q: %w", d.ID, d.TimeInterval.Start, err)
	}

	entry := &models.TimeEntry{
		ID:          d.ID,
		Description: d.Description,
		Start:       start,
		Billable:    d.Billable,
		Kind:        models.EntryKind(d.Type),
	}
	if entry.Kind == "" {
		entry.Kind = models.KindRegular
	}

	if d.TimeInterval.End != "" {
		end, err := time.Parse(time.RFC3339, d.TimeInterval.End)
		if err != nil {
			return nil, fmt.Errorf("entry %s: bad end %q: %w", d.ID, d.TimeInterval.End, err)
		}
		entry.End = &end
	}

	if d.Project != nil {
		entry.Project = &models.Project{ID: d.Project.ID, Name: d.Project.Name, Color: d.Project.Color}
	} else if d.ProjectID != "" {
		entry.Project = &models.Project{ID: d.ProjectID}
	}
	if d.Task != nil {
		entry.Task = &models.Task{ID: d.Task.ID, Name: d.Task.Name}
	} else if d.TaskID != "" {
		entry.Task = &models.Task{ID: d.TaskID}
	}
	for _, t := range d.Tags {
		entry.Tags = append(entry.Tags, t.Name)
	}

	return entry, nil
}

// --- API Methods ---

func (c *Client) GetUser() (*User, error) {
	body, err := c.doRequest(http.MethodGet, "/user", nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCurrentTimeEntry returns the in-progress entry, or nil when no timer
// is running.
func (c *Client) GetCurrentTimeEntry(userID string) (*models.TimeEntry, error) {
	params := map[string]string{
		"in-progress": "true",
		"hydrated":    "true",
	}
	body, err := c.doRequest(http.MethodGet, "/workspaces/"+c.workspaceID+"/user/"+userID+"/time-entries", params, nil)
	if err != nil {
		return nil, err
	}

	var entries []timeEntryData
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0].toModel()
}

// GetTimeEntries returns the user's entries starting in [start, end).
// Entries the API reports with an unparseable timestamp are dropped with a
// log line rather than failing the whole fetch.
func (c *Client) GetTimeEntries(userID string, start, end time.Time) ([]models.TimeEntry, error) {
	params := map[string]string{
		"start":     start.UTC().Format("2006-01-02T15:04:05Z"),
		"end":       end.UTC().Format("2006-01-02T15:04:05Z"),
		"hydrated":  "true",
		"page-size": "200",
	}
	body, err := c.doRequest(http.MethodGet, "/workspaces/"+c.workspaceID+"/user/"+userID+"/time-entries", params, nil)
	if err != nil {
		return nil, err
	}

	var raw []timeEntryData
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	entries := make([]models.TimeEntry, 0, len(raw))
	for i := range raw {
		entry, err := raw[i].toModel()
		if err != nil {
			slog.Warn("dropping unparseable time entry", "error", err)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (c *Client) GetProject(projectID string) (*models.Project, error) {
	body, err := c.doRequest(http.MethodGet, "/workspaces/"+c.workspaceID+"/projects/"+projectID, nil, nil)
	if err != nil {
		return nil, err
	}

	var p projectData
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &models.Project{ID: p.ID, Name: p.Name, Color: p.Color}, nil
}

func (c *Client) GetTask(projectID, taskID string) (*models.Task, error) {
	body, err := c.doRequest(http.MethodGet, "/workspaces/"+c.workspaceID+"/projects/"+projectID+"/tasks/"+taskID, nil, nil)
	if err != nil {
		return nil, err
	}

	var t taskData
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, err
	}
	return &models.Task{ID: t.ID, Name: t.Name}, nil
}

// GetSchedule fetches the member profile and converts it into a raw work
// schedule plus the workspace's configured week start label.
func (c *Client) GetSchedule(userID string) (*models.RawSchedule, string, error) {
	body, err := c.doRequest(http.MethodGet, "/workspaces/"+c.workspaceID+"/member-profile/"+userID, nil, nil)
	if err != nil {
		return nil, "", err
	}

	var profile memberProfileData
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, "", err
	}

	// workingDays arrives as a JSON-encoded string array
	var workingDays []string
	if profile.WorkingDays != "" {
		if err := json.Unmarshal([]byte(profile.WorkingDays), &workingDays); err != nil {
			return nil, "", fmt.Errorf("parsing workingDays %q: %w", profile.WorkingDays, err)
		}
	}

	raw := &models.RawSchedule{
		WorkingDays: workingDays,
		HoursPerDay: make(map[string]float64, len(workingDays)),
	}

	if profile.WorkCapacity != "" {
		hours, err := ParseISODuration(profile.WorkCapacity)
		if err != nil {
			slog.Warn("unparseable work capacity, leaving hours to defaults", "capacity", profile.WorkCapacity, "error", err)
		} else {
			for _, day := range workingDays {
				raw.HoursPerDay[day] = hours
			}
		}
	}

	return raw, profile.WeekStart, nil
}

// StartTimer starts a new time entry now.
func (c *Client) StartTimer(description, projectID string, billable bool) (*models.TimeEntry, error) {
	payload := map[string]interface{}{
		"start":       time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		"description": description,
		"billable":    billable,
	}
	if projectID != "" {
		payload["projectId"] = projectID
	}

	body, err := c.doRequest(http.MethodPost, "/workspaces/"+c.workspaceID+"/time-entries", nil, payload)
	if err != nil {
		return nil, err
	}

	var entry timeEntryData
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, err
	}
	return entry.toModel()
}

// StopTimer ends the user's running time entry now.
func (c *Client) StopTimer(userID string) (*models.TimeEntry, error) {
	payload := map[string]interface{}{
		"end": time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}

	body, err := c.doRequest(http.MethodPatch, "/workspaces/"+c.workspaceID+"/user/"+userID+"/time-entries", nil, payload)
	if err != nil {
		return nil, err
	}

	var entry timeEntryData
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, err
	}
	return entry.toModel()
}

// ParseISODuration converts an ISO-8601 duration like PT8H or PT7H30M to
// decimal hours.
func ParseISODuration(s string) (float64, error) {
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("not an ISO duration: %q", s)
	}

	rest := s[2:]
	var hours, minutes float64

	if i := strings.Index(rest, "H"); i >= 0 {
		h, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("bad hours in %q: %w", s, err)
		}
		hours = h
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, "M"); i >= 0 {
		m, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("bad minutes in %q: %w", s, err)
		}
		minutes = m
	}

	return hours + minutes/60.0, nil
}
