package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/confia-app/confia/internal/domain"
)

const receiptPrompt = "You are a receipt parser for a Brazilian small-business finance app.\n\n" +
	"Task:\n" +
	"- Read the attached receipt image.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object must have these fields:\n" +
	"- \"total_amount\": number, the receipt total\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
	"- \"description\": string, short summary of the merchant or purchase\n" +
	"- \"category\": string, a short expense category in Portuguese, or null\n\n" +
	"Rules:\n" +
	"- \"total_amount\", \"date\" and \"description\" are required.\n" +
	"- If no category fits, set \"category\" to null.\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

// ReceiptFields is the data extracted from a scanned receipt.
type ReceiptFields struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// receiptResponse mirrors the JSON object the model is asked to produce.
type receiptResponse struct {
	TotalAmount json.Number `json:"total_amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    *string     `json:"category"`
}

// AnalyzeReceipt sends a receipt image to the model and extracts the fields
// needed to pre-fill an expense.
func (c *Client) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (ReceiptFields, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return ReceiptFields{}, fmt.Errorf("AnalyzeReceipt: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return ReceiptFields{}, fmt.Errorf("AnalyzeReceipt: empty response from model")
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	var parsed receiptResponse
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return ReceiptFields{}, fmt.Errorf("AnalyzeReceipt: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return receiptFieldsFrom(parsed)
}

func receiptFieldsFrom(r receiptResponse) (ReceiptFields, error) {
	if r.TotalAmount == "" || r.Date == "" || r.Description == "" {
		return ReceiptFields{}, fmt.Errorf("receipt is missing required fields: %+v", r)
	}

	amount, err := decimal.NewFromString(r.TotalAmount.String())
	if err != nil {
		return ReceiptFields{}, fmt.Errorf("invalid total_amount %q: %w", r.TotalAmount, err)
	}

	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return ReceiptFields{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	category := "Outros"
	if r.Category != nil && strings.TrimSpace(*r.Category) != "" {
		category = strings.TrimSpace(*r.Category)
	}

	return ReceiptFields{
		TotalAmount: amount,
		Date:        date,
		Description: r.Description,
		Category:    category,
	}, nil
}

// TransactionInput converts extracted receipt fields into a pre-filled
// expense ready for review.
func (f ReceiptFields) TransactionInput() domain.TransactionInput {
	return domain.TransactionInput{
		Kind:        domain.KindExpense,
		Amount:      f.TotalAmount,
		Date:        f.Date,
		Category:    f.Category,
		Description: f.Description,
	}
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// try to keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
