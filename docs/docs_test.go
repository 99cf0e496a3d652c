package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocMatchesWireNames(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}

	var doc struct {
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}

	for _, path := range []string{"/grievances", "/grievances/{id}", "/grievances/stream", "/me"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Fatalf("missing path %s", path)
		}
	}

	for _, def := range []string{"grievances.Location", "geocoding.Place", "locations.Resolved"} {
		props := doc.Definitions[def].Properties
		if _, ok := props["latitude"]; !ok {
			t.Fatalf("%s: missing latitude", def)
		}
		if _, ok := props["longitude"]; !ok {
			t.Fatalf("%s: missing longitude", def)
		}
		if _, ok := props["lat"]; ok {
			t.Fatalf("%s: short name lat still documented", def)
		}
	}
}
