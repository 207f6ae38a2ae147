package apiclient

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// errorBody covers both FastAPI style ({"detail": ...}) and generic ({"message": ...}) errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// errorMessage extracts the server supplied message. ok is false when the body is not JSON.
func errorMessage(body []byte) (msg string, ok bool) {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false
	}

	if len(parsed.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail != "" {
			return detail, true
		}
		// 422 responses carry a list of validation issues.
		var issues []validationIssue
		if err := json.Unmarshal(parsed.Detail, &issues); err == nil {
			parts := make([]string, 0, len(issues))
			for _, is := range issues {
				if m := strings.TrimSpace(is.Msg); m != "" {
					parts = append(parts, m)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; "), true
			}
		}
	}
	return parsed.Message, true
}

// summarizeBody describes an unparseable body for logs: HTML pages by title, the rest by snippet.
func summarizeBody(contentType string, body []byte) string {
	if strings.Contains(strings.ToLower(contentType), "html") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
		}
	}
	return readBodySnippet(body)
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
