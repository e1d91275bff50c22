package dclxml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rezonia/mydata-gateway/internal/model"
)

// Struct tags below carry no namespace, so elements match on their local
// name and any prefix (ns:statusCode, statusCode) is accepted. Namespace
// collisions are not a concern for this closed schema.

type responseDoc struct {
	XMLName  xml.Name
	Response []responseItem `xml:"response"`
}

type responseItem struct {
	Index              string        `xml:"index"`
	StatusCode         string        `xml:"statusCode"`
	NewClientDclID     string        `xml:"newClientDclID"`
	UpdatedClientDclID string        `xml:"updatedClientDclID"`
	CancellationID     string        `xml:"cancellationID"`
	CorrelateID        string        `xml:"correlateId"`
	Errors             []errorsBlock `xml:"errors"`
}

// errorsBlock holds either <error> children or a bare message/code pair
type errorsBlock struct {
	Error   []errorEntry `xml:"error"`
	Message string       `xml:"message"`
	Code    string       `xml:"code"`
}

type errorEntry struct {
	Message string `xml:"message"`
	Code    string `xml:"code"`
}

// ParseSubmitResponse parses the acknowledgement returned by SendClient,
// UpdateClient, CancelClient and ClientCorrelations. The result always holds
// a slice of items, even when the document carries a single response.
func ParseSubmitResponse(data []byte) (*model.SubmitResponse, error) {
	var doc responseDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, model.NewMalformedResponseError("submit", err)
	}

	items := doc.Response
	if doc.XMLName.Local == "response" {
		var single responseItem
		if err := xml.Unmarshal(data, &single); err != nil {
			return nil, model.NewMalformedResponseError("submit", err)
		}
		items = []responseItem{single}
	}

	result := &model.SubmitResponse{Response: make([]model.ResponseItem, 0, len(items))}
	for i, raw := range items {
		item, err := raw.toModel()
		if err != nil {
			return nil, model.NewMalformedResponseError("submit", fmt.Errorf("response[%d]: %w", i, err))
		}
		result.Response = append(result.Response, item)
	}
	return result, nil
}

func (r responseItem) toModel() (model.ResponseItem, error) {
	item := model.ResponseItem{StatusCode: model.StatusCode(strings.TrimSpace(r.StatusCode))}

	fields := []struct {
		name string
		raw  string
		dst  **int64
	}{
		{"index", r.Index, &item.Index},
		{"newClientDclID", r.NewClientDclID, &item.NewClientDclID},
		{"updatedClientDclID", r.UpdatedClientDclID, &item.UpdatedClientDclID},
		{"cancellationID", r.CancellationID, &item.CancellationID},
		{"correlateId", r.CorrelateID, &item.CorrelateID},
	}
	for _, f := range fields {
		v, err := parseID(f.raw)
		if err != nil {
			return item, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	for _, block := range r.Errors {
		if len(block.Error) > 0 {
			for _, e := range block.Error {
				item.Errors = append(item.Errors, model.ResponseError{
					Message: strings.TrimSpace(e.Message),
					Code:    strings.TrimSpace(e.Code),
				})
			}
			continue
		}
		msg, code := strings.TrimSpace(block.Message), strings.TrimSpace(block.Code)
		if msg != "" || code != "" {
			item.Errors = append(item.Errors, model.ResponseError{Message: msg, Code: code})
		}
	}

	return item, nil
}

// parseID returns nil for an absent or empty element
func parseID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
