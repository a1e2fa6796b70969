package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jpcarvalho/recibo/internal/receipt"
)

// SubmitDraft commits a validated draft as a single multipart POST. The
// payload is built from the draft itself, never from UI widget state, so
// values behind disabled-looking controls are always carried. auto_analyze
// is forced on so the server runs full line-item processing.
func (c *Client) SubmitDraft(ctx context.Context, draft *receipt.Draft) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	if err := encodeDraft(writer, draft); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/receipts", &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

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
		return fmt.Errorf("decoding response: %w", err)
	}

	if !body.Success {
		message := body.Message
		if message == "" {
			message = body.Error
		}

		return fmt.Errorf("submission rejected: %s", message)
	}

	return nil
}

func encodeDraft(writer *multipart.Writer, draft *receipt.Draft) error {
	fields := []struct {
		name  string
		value string
	}{
		{"vendor_name", draft.VendorName},
		{"date", draft.Date},
		{"total_amount", formatCents(draft.TotalAmount)},
		{"description", draft.Description},
		{"serial_number", draft.SerialNumber},
		{"quantity", strconv.Itoa(draft.Quantity)},
		{"auto_analyze", "true"},
	}

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("writing field %s: %w", f.name, err)
		}
	}

	if draft.SourceFile != "" {
		if err := writeFilePart(writer, "receipt_image", draft.SourceFile); err != nil {
			return err
		}
	}

	for _, item := range draft.LineItems {
		itemFields := []struct {
			name  string
			value string
		}{
			{"description", item.Description},
			{"quantity", strconv.Itoa(item.Quantity)},
			{"unit_price", formatCents(item.UnitPrice)},
			{"total_price", formatCents(item.TotalPrice)},
			{"object_type", string(item.ObjectType)},
			{"category", item.Category},
			{"create_object", strconv.FormatBool(item.CreateObject)},
		}

		for _, f := range itemFields {
			name := fmt.Sprintf("line_items[%d][%s]", item.Index, f.name)
			if err := writer.WriteField(name, f.value); err != nil {
				return fmt.Errorf("writing field %s: %w", name, err)
			}
		}
	}

	return nil
}

func formatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}
