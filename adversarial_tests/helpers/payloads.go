package helpers

import (
	"fmt"
	"strings"
)

// Payload is a named response body.
type Payload struct {
	Name string
	Body string
}

// DeeplyNestedComment returns a t1 thing whose replies nest depth levels deep.
func DeeplyNestedComment(depth int) string {
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&sb, `{"kind":"t1","data":{"id":"c%d","name":"t1_c%d","body":"depth %d","author":"nester","replies":`, i, i, i)
		if i == depth-1 {
			sb.WriteString(`""}}`)
			continue
		}
		sb.WriteString(`{"kind":"Listing","data":{"children":[`)
	}
	for i := depth - 1; i > 0; i-- {
		sb.WriteString(`]}}}}`)
	}
	return sb.String()
}

// MalformedThings are bodies that must not decode as a Thing.
func MalformedThings() []Payload {
	return []Payload{
		{"missing kind", `{"data": {"id": "test123", "name": "t1_test123", "body": "x"}}`},
		{"missing data", `{"kind": "t1"}`},
		{"null data", `{"kind": "t1", "data": null}`},
		{"data as array", `{"kind": "t1", "data": ["test"]}`},
		{"data as string", `{"kind": "t1", "data": "invalid"}`},
		{"data as number", `{"kind": "t1", "data": 12345}`},
		{"unknown type code", `{"kind": "t9", "data": {"id": "test"}}`},
		{"unknown kind", `{"kind": "unknown", "data": {"id": "test"}}`},
		{"empty kind", `{"kind": "", "data": {"id": "test"}}`},
		{"null kind", `{"kind": null, "data": {"id": "test"}}`},
		{"kind as number", `{"kind": 123, "data": {"id": "test"}}`},
		{"empty object", `{}`},
		{"comment without body", `{"kind": "t1", "data": {"id": "abc", "name": "t1_abc"}}`},
		{"link without title", `{"kind": "t3", "data": {"id": "abc", "name": "t3_abc"}}`},
		{"listing without children", `{"kind": "Listing", "data": {"after": null}}`},
		{"wrong field type", `{"kind": "t3", "data": {"id": "abc", "name": "t3_abc", "title": "x", "score": "high"}}`},
		{"unclosed object", `{"kind": "t1", "data": {"id": "test"`},
		{"trailing comma", `{"kind": "t1", "data": {"id": "test"},}`},
		{"single quotes", `{'kind': 't1', 'data': {'id': 'test'}}`},
		{"array", `[]`},
		{"null", `null`},
	}
}

// MalformedListings are Listing bodies that must not decode.
func MalformedListings() []Payload {
	return []Payload{
		{"children as object", `{"kind": "Listing", "data": {"children": {"test": "invalid"}}}`},
		{"children as string", `{"kind": "Listing", "data": {"children": "invalid"}}`},
		{"string child", `{"kind": "Listing", "data": {"children": ["invalid"]}}`},
		{"number child", `{"kind": "Listing", "data": {"children": [123]}}`},
		{"child of unknown kind", `{"kind": "Listing", "data": {"children": [{"kind": "t9", "data": {}}]}}`},
		{"null child", `{"kind":"Listing","data":{"children":[null]}}`},
		{"null among children", `{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"a","name":"t3_a","title":"x"}},null]}}`},
		{"after as number", `{"kind": "Listing", "data": {"children": [], "after": 12345}}`},
		{"nested bad replies", `{"kind": "Listing", "data": {"children": [{"kind": "t1", "data": {"id": "a", "name": "t1_a", "body": "x", "replies": {"kind": "t3", "data": {"id": "b", "name": "t3_b", "title": "y"}}}}]}}`},
	}
}

// LargeListing returns a Listing of size comments.
func LargeListing(size int) string {
	elements := make([]string, size)
	for i := range elements {
		elements[i] = fmt.Sprintf(`{"kind":"t1","data":{"id":"c%d","name":"t1_c%d","body":"comment %d"}}`, i, i, i)
	}
	return `{"kind":"Listing","data":{"children":[` + strings.Join(elements, ",") + `]}}`
}

// MalformedTokenResponses are 200 answers from the token endpoint that must
// fail the grant.
func MalformedTokenResponses() []Payload {
	return []Payload{
		{"empty object", `{}`},
		{"empty access token", `{"access_token": "", "expires_in": 3600}`},
		{"error body", `{"error": "invalid_grant"}`},
		{"error with reason", `{"error": "invalid_client", "error_description": "Client authentication failed"}`},
		{"expires_in as string", `{"access_token": "valid_token", "expires_in": "3600"}`},
		{"expires_in as float", `{"access_token": "valid_token", "expires_in": 3600.5}`},
		{"expires_in as object", `{"access_token": "valid_token", "expires_in": {}}`},
		{"access token number", `{"access_token": 123, "expires_in": 3600}`},
		{"negative expires_in", `{"access_token": "valid_token", "expires_in": -1}`},
		{"access token null", `{"access_token": null, "expires_in": 3600}`},
		{"unclosed", `{"access_token": "valid_token", "expires_in": 3600`},
		{"bare word", `NaN`},
		{"html", `<html><body>Too Many Requests</body></html>`},
	}
}

// MalformedMoreChildren are /api/morechildren bodies that must not decode.
func MalformedMoreChildren() []Payload {
	return []Payload{
		{"things as string", `{"json": {"errors": [], "data": {"things": "invalid"}}}`},
		{"errors as object", `{"json": {"errors": {}, "data": {"things": []}}}`},
		{"unknown thing", `{"json": {"errors": [], "data": {"things": [{"kind": "t9", "data": {}}]}}}`},
		{"array", `[]`},
		{"not json", `<html></html>`},
	}
}
