package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
)

const sampleBody = `{
  "nodes": [
    {"name": "hub1", "resource_id": "hub1_id",
     "peering_resource_ids": ["s1_id", "s2_id", "s3_id"]},
    {"name": "s1", "resource_id": "s1_id", "peering_resource_ids": ["hub1_id"]},
    {"name": "s2", "resource_id": "s2_id", "peering_resource_ids": ["hub1_id"]},
    {"name": "s3", "resource_id": "s3_id", "peering_resource_ids": ["hub1_id"]}
  ]
}`

func testServer() *httptest.Server {
	return httptest.NewServer(NewServer(config.Default(), nil).Router())
}

func TestHealthz(t *testing.T) {
	server := testServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDiagramEndpointsRenderDrawio(t *testing.T) {
	server := testServer()
	defer server.Close()

	for _, mode := range []string{"hld", "mld"} {
		resp, err := http.Post(server.URL+"/v1/diagrams/"+mode, "application/json",
			strings.NewReader(sampleBody))
		if err != nil {
			t.Fatalf("POST %s: %v", mode, err)
		}
		body := readAll(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d, body %s", mode, resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/xml" {
			t.Errorf("%s content type = %s", mode, ct)
		}
		if !strings.Contains(body, "<mxfile") || !strings.Contains(body, "hub1_main") {
			t.Errorf("%s body does not look like a rendered diagram", mode)
		}
	}
}

func TestDiagramEmptyTopologyIsBadRequest(t *testing.T) {
	server := testServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/diagrams/hld", "application/json",
		strings.NewReader(`{"nodes": []}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	body := readAll(t, resp)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var parsed struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("error body not JSON: %s", body)
	}
	if parsed.Code != "EMPTY_TOPOLOGY" {
		t.Errorf("code = %s, want EMPTY_TOPOLOGY", parsed.Code)
	}
}

func TestDiagramMalformedBodyIsBadRequest(t *testing.T) {
	server := testServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/diagrams/mld", "application/json",
		strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			return sb.String()
		}
	}
}
