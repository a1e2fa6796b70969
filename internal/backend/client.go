package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/receipt"
)

// Recognition backend identifiers: the primary and secondary AI providers.
const (
	ModelClaude = "claude"
	ModelOpenAI = "openai"
)

// Client talks to the recognition/category HTTP API. It implements the
// interfaces consumed by the connectivity monitor, the catalog, the
// suggestion engine, the extraction orchestrator and the submission gate.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckConnection probes whether the chosen backend is reachable and
// authorized. An authentication failure is reported as ErrAuthentication so
// callers can surface a distinct actionable message; anything else
// transport-shaped wraps ErrUnavailable.
func (c *Client) CheckConnection(ctx context.Context, model string) error {
	endpoint := fmt.Sprintf("%s/api/check-api-connection?model=%s", c.baseURL, url.QueryEscape(model))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if body.Success {
		return nil
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}

	if body.ErrorType == errorTypeAuthentication {
		return fmt.Errorf("%w: %s", ErrAuthentication, message)
	}

	return fmt.Errorf("%w: %s", ErrUnavailable, message)
}

// ListCategories fetches the catalog for one object type.
func (c *Client) ListCategories(ctx context.Context, objectType category.ObjectType) ([]category.Category, error) {
	endpoint := fmt.Sprintf("%s/api/categories/%s", c.baseURL, url.PathEscape(string(objectType)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body categoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}

	if !body.Success {
		return nil, fmt.Errorf("listing categories: %s", body.Error)
	}

	return fromWireCategories(body.Categories), nil
}

// CreateCategory registers a new category for an object type.
func (c *Client) CreateCategory(ctx context.Context, objectType category.ObjectType, cat category.Category) error {
	payload, err := json.Marshal(createCategoryRequest{
		Name:        cat.Name,
		ObjectType:  string(objectType),
		Description: cat.Description,
		Icon:        cat.Icon,
		Color:       cat.Color,
	})
	if err != nil {
		return fmt.Errorf("encoding category: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/categories", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if !body.Success {
		return fmt.Errorf("creating category: %s", body.Message)
	}

	return nil
}

// Recognize uploads the receipt artifact and returns the recognized fields,
// plus line items when FullAnalysis is set.
func (c *Client) Recognize(ctx context.Context, rreq receipt.RecognizeRequest) (*receipt.RecognizeResult, error) {
	if rreq.FilePath == "" {
		return nil, receipt.ErrNoFile
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	if err := writeFilePart(writer, "receipt_image", rreq.FilePath); err != nil {
		return nil, err
	}

	fields := map[string]string{"ai_model": rreq.Model}
	if rreq.FullAnalysis {
		fields["auto_analyze"] = "true"
		fields["auto_link"] = strconv.FormatBool(rreq.AutoLink)
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ocr-receipt", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding recognition response: %w", err)
	}

	if !body.Success || body.ReceiptData == nil {
		if body.ErrorType == errorTypeAuthentication {
			return nil, fmt.Errorf("%w: %s", ErrAuthentication, body.Error)
		}

		return nil, fmt.Errorf("recognition failed: %s", body.Error)
	}

	return fromWireReceipt(body.ReceiptData), nil
}

// SuggestCategory asks the AI service to classify one line item.
func (c *Client) SuggestCategory(ctx context.Context, sreq category.SuggestRequest) (*category.SuggestResult, error) {
	reqBody := suggestRequestBody{
		Description: sreq.Description,
		ObjectType:  string(sreq.ObjectType),
		Vendor:      sreq.Vendor,
	}

	if sreq.AmountCents > 0 {
		amount := float64(sreq.AmountCents) / 100.0
		reqBody.Amount = &amount
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/suggest-category", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body suggestResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding suggestion response: %w", err)
	}

	if !body.Success {
		if body.ErrorType == errorTypeAuthentication {
			return nil, fmt.Errorf("%w: %s", ErrAuthentication, body.Error)
		}

		return nil, fmt.Errorf("suggestion failed: %s", body.Error)
	}

	return &category.SuggestResult{
		All:     fromWireCategories(body.AllCategories),
		Created: fromWireCategories(body.CreatedCategories),
	}, nil
}

func writeFilePart(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

func fromWireCategories(wire []wireCategory) []category.Category {
	categories := make([]category.Category, len(wire))
	for i, w := range wire {
		categories[i] = category.Category{
			Name:        w.Name,
			Description: w.Description,
			Icon:        w.Icon,
			Color:       w.Color,
		}
	}

	return categories
}

func fromWireReceipt(data *wireReceiptData) *receipt.RecognizeResult {
	result := &receipt.RecognizeResult{
		Fields: receipt.Fields{
			VendorName:  data.VendorName,
			Date:        data.Date,
			TotalAmount: receipt.CentsFromFloat(data.TotalAmount),
			Description: data.Description,
		},
	}

	for _, item := range data.LineItems {
		result.LineItems = append(result.LineItems, receipt.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   receipt.CentsFromFloat(item.UnitPrice),
			TotalPrice:  receipt.CentsFromFloat(item.TotalPrice),
			ObjectType:  category.ParseObjectType(item.ObjectType),
			Category:    item.Category,
		})
	}

	return result
}
