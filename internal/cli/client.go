package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// --- Response types ---

// StationResponse — станция из API.
type StationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// LineResponse — линия из API. Stations заполнен только в show.
type LineResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Color     string            `json:"color"`
	Stations  []StationResponse `json:"stations"`
	Distance  int               `json:"distance,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// SectionResponse — section из API.
type SectionResponse struct {
	ID            string `json:"id"`
	UpStationID   string `json:"up_station_id"`
	DownStationID string `json:"down_station_id"`
	Distance      int    `json:"distance"`
}

// --- Request types ---

// CreateLineRequest — создание линии.
type CreateLineRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	UpStationID   string `json:"up_station_id"`
	DownStationID string `json:"down_station_id"`
	Distance      int    `json:"distance"`
}

// UpdateLineRequest — обновление линии.
type UpdateLineRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SectionRequest — новый section.
type SectionRequest struct {
	UpStationID   string `json:"up_station_id"`
	DownStationID string `json:"down_station_id"`
	Distance      int    `json:"distance"`
}

// APIError — ошибка, которую вернул сервер.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConflict — true для ответа 409.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент subway API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API по адресу baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Stations ---

// ListStations возвращает все станции.
func (c *Client) ListStations() ([]StationResponse, error) {
	var stations []StationResponse
	err := c.get("/api/v1/stations", &stations)
	return stations, err
}

// CreateStation создаёт станцию.
func (c *Client) CreateStation(name string) (*StationResponse, error) {
	var st StationResponse
	err := c.send(http.MethodPost, "/api/v1/stations", map[string]string{"name": name}, &st)
	return &st, err
}

// GetStation возвращает станцию.
func (c *Client) GetStation(id string) (*StationResponse, error) {
	var st StationResponse
	err := c.get("/api/v1/stations/"+id, &st)
	return &st, err
}

// RenameStation переименовывает станцию.
func (c *Client) RenameStation(id, name string) (*StationResponse, error) {
	var st StationResponse
	err := c.send(http.MethodPut, "/api/v1/stations/"+id, map[string]string{"name": name}, &st)
	return &st, err
}

// DeleteStation удаляет станцию.
func (c *Client) DeleteStation(id string) error {
	return c.send(http.MethodDelete, "/api/v1/stations/"+id, nil, nil)
}

// --- Lines ---

// ListLines возвращает все линии.
func (c *Client) ListLines() ([]LineResponse, error) {
	var lines []LineResponse
	err := c.get("/api/v1/lines", &lines)
	return lines, err
}

// CreateLine создаёт линию.
func (c *Client) CreateLine(req CreateLineRequest) (*LineResponse, error) {
	var line LineResponse
	err := c.send(http.MethodPost, "/api/v1/lines", req, &line)
	return &line, err
}

// GetLine возвращает линию со станциями маршрута.
func (c *Client) GetLine(id string) (*LineResponse, error) {
	var line LineResponse
	err := c.get("/api/v1/lines/"+id, &line)
	return &line, err
}

// UpdateLine меняет имя и цвет линии.
func (c *Client) UpdateLine(id string, req UpdateLineRequest) (*LineResponse, error) {
	var line LineResponse
	err := c.send(http.MethodPut, "/api/v1/lines/"+id, req, &line)
	return &line, err
}

// DeleteLine удаляет линию.
func (c *Client) DeleteLine(id string) error {
	return c.send(http.MethodDelete, "/api/v1/lines/"+id, nil, nil)
}

// ListSections возвращает sections линии в порядке маршрута.
func (c *Client) ListSections(lineID string) ([]SectionResponse, error) {
	var sections []SectionResponse
	err := c.get("/api/v1/lines/"+lineID+"/sections", &sections)
	return sections, err
}

// AddSection добавляет section к линии.
func (c *Client) AddSection(lineID string, req SectionRequest) (*LineResponse, error) {
	var line LineResponse
	err := c.send(http.MethodPost, "/api/v1/lines/"+lineID+"/sections", req, &line)
	return &line, err
}

// RemoveLineStation убирает станцию из линии.
func (c *Client) RemoveLineStation(lineID, stationID string) error {
	return c.send(http.MethodDelete, "/api/v1/lines/"+lineID+"/stations/"+stationID, nil, nil)
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.send(http.MethodGet, path, nil, result)
}

// send выполняет запрос и распаковывает поле data ответа в result.
func (c *Client) send(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || result == nil {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(dr.Data, result)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
	}
	return apiErr
}
