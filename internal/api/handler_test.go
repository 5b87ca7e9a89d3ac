package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amterp/flagmaker/internal/editor"
	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
)

// twoStripes is the fragment for ["FF0018","FFA52C"].
const twoStripes = "WyJGRjAwMTgiLCJGRkE1MkMiXQ=="

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler *Handler
	session *Session
	mux     *http.ServeMux
}

// setupTestAPI creates a handler over a fresh session with default config.
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := model.DefaultConfig()
	session := NewSession(cfg, rand.New(rand.NewSource(1)))
	handler := NewHandler(session, cfg)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testAPI{
		handler: handler,
		session: session,
		mux:     mux,
	}
}

// start opens the session on fragment, failing the test on error.
func (api *testAPI) start(t *testing.T, fragment string) editor.State {
	t.Helper()
	w := api.request("POST", "/api/v1/session", StartSessionRequest{Fragment: fragment})
	if w.Code != http.StatusOK {
		t.Fatalf("Start session: status %d: %s", w.Code, w.Body.String())
	}
	var state editor.State
	decodeJSON(t, w, &state)
	return state
}

// request makes an HTTP request and returns the response.
func (api *testAPI) request(method, path string, body any) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	return w
}

// decodeJSON decodes the response body into the given target.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["error"] == "" {
		t.Error("Expected error message in response")
	}
}

// ============================================================================
// Session Endpoint Tests
// ============================================================================

func TestHandler_StartSession_FromFragment(t *testing.T) {
	api := setupTestAPI(t)

	state := api.start(t, "#"+twoStripes)

	want := model.ColorList{"FF0018", "FFA52C"}
	if !state.Colors.Equal(want) {
		t.Errorf("Colors = %v, want %v", state.Colors, want)
	}
	if state.Dirty {
		t.Error("Fresh session should not be dirty")
	}
	if state.Fragment != "" {
		t.Errorf("Fragment = %q, want empty until edited", state.Fragment)
	}
	if len(state.Image.Shapes) != 2 {
		t.Errorf("Expected 2 shapes, got %d", len(state.Image.Shapes))
	}
}

func TestHandler_StartSession_InvalidFragmentFallsBack(t *testing.T) {
	api := setupTestAPI(t)

	state := api.start(t, "not-a-flag")

	if len(state.Colors) == 0 {
		t.Fatal("Expected a default template")
	}
	found := false
	for _, tmpl := range model.DefaultTemplates {
		if state.Colors.Equal(tmpl.ColorList()) {
			found = true
		}
	}
	if !found {
		t.Errorf("Colors %v are not a built-in template", state.Colors)
	}
}

func TestHandler_StartSession_InvalidJSON(t *testing.T) {
	api := setupTestAPI(t)

	req := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader("{"))
	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)

	expectError(t, w, http.StatusBadRequest)
}

func TestHandler_GetSession(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("GET", "/api/v1/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var state editor.State
	decodeJSON(t, w, &state)
	if len(state.Colors) != 2 {
		t.Errorf("Expected 2 colors, got %d", len(state.Colors))
	}
}

// ============================================================================
// Color Endpoint Tests
// ============================================================================

func TestHandler_AddColor_Explicit(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("POST", "/api/v1/colors", ColorRequest{Color: "#00ff00"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var state editor.State
	decodeJSON(t, w, &state)
	want := model.ColorList{"FF0018", "FFA52C", "00FF00"}
	if !state.Colors.Equal(want) {
		t.Errorf("Colors = %v, want %v", state.Colors, want)
	}
	if state.Fragment != link.Encode(want) {
		t.Errorf("Fragment = %q, want %q", state.Fragment, link.Encode(want))
	}

	// The shared fragment follows the edit
	fragment, ok := api.session.Port.Read()
	if !ok || fragment != state.Fragment {
		t.Errorf("Port = %q (%v), want %q", fragment, ok, state.Fragment)
	}
}

func TestHandler_AddColor_Random(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("POST", "/api/v1/colors", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}

	var state editor.State
	decodeJSON(t, w, &state)
	if len(state.Colors) != 3 {
		t.Fatalf("Expected 3 colors, got %d", len(state.Colors))
	}
	if !state.Colors[2].Valid() {
		t.Errorf("Added color %q is not valid", state.Colors[2])
	}
}

func TestHandler_AddColor_Invalid(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("POST", "/api/v1/colors", ColorRequest{Color: "purple"})
	expectError(t, w, http.StatusBadRequest)

	if got := api.session.Controller.Colors(); len(got) != 2 {
		t.Errorf("Rejected add changed the flag: %v", got)
	}
}

func TestHandler_ReplaceColor(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("PUT", "/api/v1/colors/1", ColorRequest{Color: "0000f9"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var state editor.State
	decodeJSON(t, w, &state)
	want := model.ColorList{"FF0018", "0000F9"}
	if !state.Colors.Equal(want) {
		t.Errorf("Colors = %v, want %v", state.Colors, want)
	}
}

func TestHandler_RemoveColor(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("DELETE", "/api/v1/colors/0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var state editor.State
	decodeJSON(t, w, &state)
	if !state.Colors.Equal(model.ColorList{"FFA52C"}) {
		t.Errorf("Colors = %v, want [FFA52C]", state.Colors)
	}
}

func TestHandler_ColorIndexErrors(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"replace past end", "PUT", "/api/v1/colors/2", ColorRequest{Color: "000000"}},
		{"replace negative", "PUT", "/api/v1/colors/-1", ColorRequest{Color: "000000"}},
		{"remove past end", "DELETE", "/api/v1/colors/5", nil},
		{"non-numeric index", "DELETE", "/api/v1/colors/abc", nil},
		{"open past end", "POST", "/api/v1/colors/9/picker", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request(tt.method, tt.path, tt.body)
			expectError(t, w, http.StatusBadRequest)
		})
	}

	if got := api.session.Controller.Colors(); len(got) != 2 {
		t.Errorf("Failed requests changed the flag: %v", got)
	}
}

// ============================================================================
// Picker Endpoint Tests
// ============================================================================

func TestHandler_Picker_Flow(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	// Picks are ignored until the picker is open
	w := api.request("POST", "/api/v1/colors/0/pick", ColorRequest{Color: "00FF00"})
	expectError(t, w, http.StatusConflict)

	w = api.request("POST", "/api/v1/colors/0/picker", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Open picker: status %d", w.Code)
	}
	var state editor.State
	decodeJSON(t, w, &state)
	if len(state.Open) != 1 || state.Open[0] != 0 {
		t.Errorf("Open = %v, want [0]", state.Open)
	}
	if state.Dirty {
		t.Error("Opening the picker should not dirty the flag")
	}

	for _, c := range []string{"#00ff00", "#00ee00"} {
		w = api.request("POST", "/api/v1/colors/0/pick", ColorRequest{Color: c})
		if w.Code != http.StatusOK {
			t.Fatalf("Pick %s: status %d", c, w.Code)
		}
	}
	decodeJSON(t, w, &state)
	if state.Colors[0] != "00EE00" {
		t.Errorf("Colors[0] = %q, want 00EE00", state.Colors[0])
	}

	w = api.request("DELETE", "/api/v1/colors/0/picker", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Close picker: status %d", w.Code)
	}
	decodeJSON(t, w, &state)
	if len(state.Open) != 0 {
		t.Errorf("Open = %v, want none", state.Open)
	}
	if state.Colors[0] != "00EE00" {
		t.Error("Closing the picker should keep the last pick")
	}
}

// ============================================================================
// Reference Data Tests
// ============================================================================

func TestHandler_GetPresets(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("GET", "/api/v1/presets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp PresetsResponse
	decodeJSON(t, w, &resp)
	if len(resp.Presets) < 2 {
		t.Fatalf("Expected presets, got %v", resp.Presets)
	}
	if resp.Presets[0] != "#FF0018" || resp.Presets[1] != "#FFA52C" {
		t.Errorf("Flag colors should lead the presets, got %v", resp.Presets[:2])
	}
}

func TestHandler_ListTemplates(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var templates []model.Template
	decodeJSON(t, w, &templates)
	if len(templates) != len(model.DefaultTemplates) {
		t.Errorf("Expected %d templates, got %d", len(model.DefaultTemplates), len(templates))
	}
}

func TestHandler_ApplyConfig(t *testing.T) {
	api := setupTestAPI(t)

	cfg := model.DefaultConfig()
	cfg.Templates = []model.Template{{Name: "Mono", Colors: []string{"000000"}}}
	cfg.Palette = []string{"123456"}
	api.handler.ApplyConfig(cfg)

	var templates []model.Template
	decodeJSON(t, api.request("GET", "/api/v1/templates", nil), &templates)
	if last := templates[len(templates)-1]; last.Name != "Mono" {
		t.Errorf("Last template = %q, want Mono", last.Name)
	}

	api.start(t, twoStripes)
	var resp PresetsResponse
	decodeJSON(t, api.request("GET", "/api/v1/presets", nil), &resp)
	if last := resp.Presets[len(resp.Presets)-1]; last != "#123456" {
		t.Errorf("Last preset = %q, want #123456", last)
	}
}

// ============================================================================
// Export Endpoint Tests
// ============================================================================

func TestHandler_ExportSVG(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("GET", "/api/v1/flag.svg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="flag.svg"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := w.Body.String()
	for _, want := range []string{"<svg", `fill="#FF0018"`, `fill="#FFA52C"`} {
		if !strings.Contains(body, want) {
			t.Errorf("SVG missing %q:\n%s", want, body)
		}
	}
}

func TestHandler_ExportSVG_Fragment(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	// ["000000"]
	w := api.request("GET", "/api/v1/flag.svg?fragment=WyIwMDAwMDAiXQ==", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `fill="#000000"`) || strings.Contains(body, "FF0018") {
		t.Errorf("Expected only the fragment's flag:\n%s", body)
	}
}

func TestHandler_ExportSVG_BadFragment(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/flag.svg?fragment=%25%25", nil)
	expectError(t, w, http.StatusBadRequest)
}

func TestHandler_ExportPNG(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("GET", "/api/v1/flag.png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="flag.png"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("Decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != model.DefaultExportWidth || b.Dy() != model.DefaultExportHeight {
		t.Errorf("Size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandler_ExportPNG_Width(t *testing.T) {
	api := setupTestAPI(t)
	api.start(t, twoStripes)

	w := api.request("GET", "/api/v1/flag.png?width=200", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("Decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 120 {
		t.Errorf("Size = %dx%d, want 200x120", b.Dx(), b.Dy())
	}

	for _, bad := range []string{"0", "abc", "99999"} {
		w := api.request("GET", "/api/v1/flag.png?width="+bad, nil)
		expectError(t, w, http.StatusBadRequest)
	}
}

// ============================================================================
// Static Files
// ============================================================================

func TestHandler_ServesEditorPage(t *testing.T) {
	api := setupTestAPI(t)

	for _, path := range []string{"/", "/some/page"} {
		w := api.request("GET", path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: status %d", path, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), "Flag Maker") {
			t.Errorf("GET %s did not serve the editor page", path)
		}
	}
}

func TestHandler_EditorPageKeepsPickerAlive(t *testing.T) {
	api := setupTestAPI(t)

	page := api.request("GET", "/", nil).Body.String()
	checks := []struct {
		name, snippet string
		want          bool
	}{
		{"ignores older states", "next.seq < state.seq", true},
		{"hex label opens the picker", "label.onclick = openPicker", true},
		{"swatch opens the picker", "swatch.onclick = openPicker", true},
		{"boxes are not rebuilt", "boxes.replaceChildren()", false},
	}
	for _, c := range checks {
		if got := strings.Contains(page, c.snippet); got != c.want {
			t.Errorf("%s: contains %q = %v", c.name, c.snippet, got)
		}
	}
}

func TestHandler_StateSeqAdvances(t *testing.T) {
	api := setupTestAPI(t)
	first := api.start(t, twoStripes)

	w := api.request("POST", "/api/v1/colors", ColorRequest{Color: "000000"})
	var added editor.State
	decodeJSON(t, w, &added)
	if added.Seq <= first.Seq {
		t.Errorf("Seq after add = %d, want > %d", added.Seq, first.Seq)
	}

	w = api.request("GET", "/api/v1/session", nil)
	var current editor.State
	decodeJSON(t, w, &current)
	if current.Seq != added.Seq {
		t.Errorf("GET session Seq = %d, want %d", current.Seq, added.Seq)
	}
}
