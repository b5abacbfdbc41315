package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/letsssgooo/checklist/internal/domain/models"
)

// HTTPClient реализует Client через HTTP API бэкенда чеклистов.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient создаёт нового HTTP клиента бэкенда с адресом baseURL.
// Если httpClient равен nil, используется клиент с таймаутом DefaultTimeout.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// RegisterUser отправляет ФИО и роль, возвращает идентификатор пользователя.
// Каждый вызов создает на бэкенде нового пользователя.
func (c *HTTPClient) RegisterUser(
	ctx context.Context,
	draft models.RegistrationDraft,
) (models.RegisteredUser, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.RegisteredUser{}, err
	}

	rawResp, err := c.doRequest(ctx, "RegisterUser", usersPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return models.RegisteredUser{}, err
	}

	var user struct {
		ID json.RawMessage `json:"id"`
	}
	if err = json.Unmarshal(rawResp, &user); err != nil {
		return models.RegisteredUser{}, fmt.Errorf("failed to decode register response: %w", err)
	}

	id, err := decodeID(user.ID)
	if err != nil {
		return models.RegisteredUser{}, err
	}

	return models.RegisteredUser{ID: id}, nil
}

// SubmitChecklist отправляет чеклист multipart-формой.
// Поля section_id, user_id, score и comments пишутся по одному разу,
// затем по одной части photos на каждую фотографию в порядке выбора.
func (c *HTTPClient) SubmitChecklist(
	ctx context.Context,
	submission models.Submission,
) (models.SubmissionResult, error) {
	var buf bytes.Buffer

	contentType, err := writeSubmission(&buf, submission)
	if err != nil {
		return models.SubmissionResult{}, err
	}

	rawResp, err := c.doRequest(ctx, "SubmitChecklist", checklistsPath, contentType, &buf)
	if err != nil {
		return models.SubmissionResult{}, err
	}

	if !isJSONObject(rawResp) {
		return models.SubmissionResult{}, ErrNotJSONObject
	}

	return models.SubmissionResult{Raw: rawResp}, nil
}

// writeSubmission пишет multipart-форму в w и возвращает её Content-Type.
func writeSubmission(w io.Writer, submission models.Submission) (string, error) {
	writer := multipart.NewWriter(w)

	fields := []struct {
		name  string
		value string
	}{
		{fieldSectionID, strconv.Itoa(submission.SectionID)},
		{fieldUserID, submission.UserID},
		{fieldScore, strconv.Itoa(submission.Score)},
		{fieldComments, submission.Comments},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return "", fmt.Errorf("failed to add %s field to multipart form: %w", f.name, err)
		}
	}

	for _, photo := range submission.Photos {
		part, err := writer.CreatePart(photoHeader(photo))
		if err != nil {
			return "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err = part.Write(photo.Data); err != nil {
			return "", fmt.Errorf("failed to write photo %s to multipart form: %w", photo.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart form: %w", err)
	}

	return writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func photoHeader(photo models.Photo) textproto.MIMEHeader {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		fieldPhotos, quoteEscaper.Replace(photo.Name)))
	h.Set("Content-Type", contentType)
	return h
}

// doRequest выполняет POST запрос к бэкенду.
// Возвращает тело ответа в случае успеха.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	op string,
	path string,
	contentType string,
	body io.Reader,
) (json.RawMessage, error) {
	url := c.baseURL + path
	requestID := uuid.NewString()
	log := slog.With("op", op, "url", url, "requestID", requestID)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", "application/json")
	request.Header.Set(RequestIDHeader, requestID)

	log.Debug("sending request")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		log.Debug("request failed", "error", err)
		return nil, fmt.Errorf("failed to do post request for url %s: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body in %s: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("unexpected status", "status", resp.StatusCode)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(data)), maxErrorBody),
		}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid json in %s response", op)
	}

	log.Debug("success", "status", resp.StatusCode)
	return data, nil
}

// decodeID превращает значение поля id в непрозрачную строку.
// Строки берутся как есть, числа в исходной записи.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingID
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("failed to decode user id: %w", err)
		}
		if s == "" {
			return "", ErrMissingID
		}
		return s, nil
	case '{', '[', 't', 'f':
		return "", fmt.Errorf("%w: unsupported id value %s", ErrMissingID, raw)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("failed to decode user id: %w", err)
		}
		return n.String(), nil
	}
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
