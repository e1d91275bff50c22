package dclxml

import (
	"errors"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/mydata-gateway/internal/model"
)

// textKey holds the character data of an element that also has children or
// attributes
const textKey = "_"

// collections maps each optional collection of a RequestedDoc to the tag of
// its wrapped items
var collections = []struct {
	tag  string
	item string
	dst  func(*model.RequestedDoc) *[]model.Record
}{
	{"clientsDoc", "client", func(d *model.RequestedDoc) *[]model.Record { return &d.ClientsDoc }},
	{"updateclientRequestsDoc", "updateClient", func(d *model.RequestedDoc) *[]model.Record { return &d.UpdateClientRequestsDoc }},
	{"clientcorrelationsRequestsDoc", "clientCorrelation", func(d *model.RequestedDoc) *[]model.Record { return &d.ClientCorrelationRequestsDoc }},
	{"cancelClientRequestsDoc", "cancelClient", func(d *model.RequestedDoc) *[]model.Record { return &d.CancelClientRequestsDoc }},
}

// ParseRequestedDoc parses the result of a RequestClients query. Each
// collection is returned as a slice of generic records whether the items are
// wrapped (clientsDoc>client) or bare.
func ParseRequestedDoc(data []byte) (*model.RequestedDoc, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewMalformedResponseError("RequestedDoc", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewMalformedResponseError("RequestedDoc", errors.New("no root element"))
	}

	container := &doc.Element
	if root.Tag == "RequestedDoc" {
		container = root
	}

	result := &model.RequestedDoc{}
	for _, child := range container.ChildElements() {
		switch child.Tag {
		case "entityVatNumber":
			result.EntityVatNumber = strings.TrimSpace(child.Text())
		case "continuationToken":
			result.ContinuationToken = toValue(child)
		default:
			for _, c := range collections {
				if child.Tag != c.tag {
					continue
				}
				dst := c.dst(result)
				*dst = append(*dst, collectionItems(child, c.item)...)
			}
		}
	}

	return result, nil
}

func collectionItems(coll *etree.Element, itemTag string) []model.Record {
	var records []model.Record
	for _, child := range coll.ChildElements() {
		if child.Tag == itemTag {
			records = append(records, toRecord(child))
		}
	}
	if records == nil {
		records = []model.Record{toRecord(coll)}
	}
	return records
}

func toRecord(e *etree.Element) model.Record {
	if rec, ok := toValue(e).(model.Record); ok {
		return rec
	}
	return model.Record{textKey: strings.TrimSpace(e.Text())}
}

// toValue converts an element into a string for leaves or a Record otherwise.
// Repeated children become []any in document order.
func toValue(e *etree.Element) any {
	children := e.ChildElements()
	attrs := make([]etree.Attr, 0, len(e.Attr))
	for _, a := range e.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		attrs = append(attrs, a)
	}

	if len(children) == 0 && len(attrs) == 0 {
		return strings.TrimSpace(e.Text())
	}

	rec := make(model.Record, len(children)+len(attrs))
	for _, a := range attrs {
		rec[a.Key] = a.Value
	}
	for _, child := range children {
		v := toValue(child)
		switch existing := rec[child.Tag].(type) {
		case nil:
			rec[child.Tag] = v
		case []any:
			rec[child.Tag] = append(existing, v)
		default:
			rec[child.Tag] = []any{existing, v}
		}
	}
	if text := strings.TrimSpace(e.Text()); text != "" {
		rec[textKey] = text
	}
	return rec
}
