package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/amterp/flagmaker/internal/editor"
	"github.com/amterp/flagmaker/internal/export"
	"github.com/amterp/flagmaker/internal/id"
	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/render"
	"github.com/disintegration/imaging"
)

// Handler contains all HTTP handlers for the API.
//
// Design: single-user, single-session. Every open page edits the same flag
// and sees each change over the WebSocket. Mutations go through the
// controller, which applies them one at a time.
type Handler struct {
	session *Session
	mu      sync.RWMutex
	cfg     *model.Config
}

// NewHandler creates a new handler for session, configured by cfg.
func NewHandler(session *Session, cfg *model.Config) *Handler {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Handler{
		session: session,
		cfg:     cfg,
	}
}

// config returns the current config under read lock.
func (h *Handler) config() *model.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// ApplyConfig swaps in a reloaded config and pushes it into the session.
func (h *Handler) ApplyConfig(cfg *model.Config) {
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	applyConfig(h.session.Controller, cfg)
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Session routes
	mux.HandleFunc("GET /api/v1/session", h.GetSession)
	mux.HandleFunc("POST /api/v1/session", h.StartSession)

	// Color routes
	mux.HandleFunc("POST /api/v1/colors", h.AddColor)
	mux.HandleFunc("PUT /api/v1/colors/{index}", h.ReplaceColor)
	mux.HandleFunc("DELETE /api/v1/colors/{index}", h.RemoveColor)

	// Picker routes
	mux.HandleFunc("POST /api/v1/colors/{index}/picker", h.OpenPicker)
	mux.HandleFunc("DELETE /api/v1/colors/{index}/picker", h.ClosePicker)
	mux.HandleFunc("POST /api/v1/colors/{index}/pick", h.PickColor)

	// Reference data
	mux.HandleFunc("GET /api/v1/presets", h.GetPresets)
	mux.HandleFunc("GET /api/v1/templates", h.ListTemplates)

	// Export routes
	mux.HandleFunc("GET /api/v1/flag.svg", h.ExportSVG)
	mux.HandleFunc("GET /api/v1/flag.png", h.ExportPNG)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// --- Session Handlers ---

// StartSessionRequest carries the page's URL fragment on load.
type StartSessionRequest struct {
	Fragment string `json:"fragment"`
}

// GetSession returns the current session state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.session.Controller.State())
}

// StartSession (re)initializes the session from the page's fragment.
// An undecodable fragment silently yields a random default flag.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "Invalid JSON")
			return
		}
	}

	if err := h.session.Port.Write(req.Fragment); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.session.Controller.Initialize())
}

// --- Color Handlers ---

// ColorRequest is the body for color edits.
type ColorRequest struct {
	Color string `json:"color"`
}

// AddColor appends the given color, or a random template color when none is given.
func (h *Handler) AddColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "Invalid JSON")
			return
		}
	}

	c := h.session.Controller
	if req.Color == "" {
		c.Add()
	} else if err := c.AddColor(req.Color); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, c.State())
}

// ReplaceColor sets the color at an index.
func (h *Handler) ReplaceColor(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "Invalid JSON")
		return
	}

	if err := h.session.Controller.Replace(index, req.Color); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.session.Controller.State())
}

// RemoveColor drops the color at an index.
func (h *Handler) RemoveColor(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	if err := h.session.Controller.Remove(index); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.session.Controller.State())
}

// --- Picker Handlers ---

// OpenPicker shows the color picker of one box.
func (h *Handler) OpenPicker(w http.ResponseWriter, r *http.Request) {
	h.withBox(w, r, func(b *editor.Box) error { return b.Open() })
}

// ClosePicker hides the color picker of one box without changing anything.
func (h *Handler) ClosePicker(w http.ResponseWriter, r *http.Request) {
	h.withBox(w, r, func(b *editor.Box) error { return b.Close() })
}

// PickColor applies a live picker change.
func (h *Handler) PickColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "Invalid JSON")
		return
	}
	h.withBox(w, r, func(b *editor.Box) error { return b.Pick(req.Color) })
}

func (h *Handler) withBox(w http.ResponseWriter, r *http.Request, fn func(b *editor.Box) error) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	box, err := h.session.Controller.Box(index)
	if err != nil {
		Error(w, err)
		return
	}
	if err := fn(box); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.session.Controller.State())
}

// --- Reference Data Handlers ---

// PresetsResponse lists picker presets as #RRGGBB strings.
type PresetsResponse struct {
	Presets []string `json:"presets"`
}

// GetPresets returns the picker presets for the current flag.
func (h *Handler) GetPresets(w http.ResponseWriter, r *http.Request) {
	presets := h.session.Controller.State().Presets
	resp := PresetsResponse{Presets: make([]string, len(presets))}
	for i, c := range presets {
		resp.Presets[i] = c.Hex()
	}
	JSON(w, http.StatusOK, resp)
}

// ListTemplates returns the built-in and configured templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.config().AllTemplates())
}

// --- Export Handlers ---

// ExportSVG downloads the flag as flag.svg.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	img, ok := h.imageFor(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.SVG(&buf, img); err != nil {
		Error(w, err)
		return
	}
	attachment(w, export.SVGContentType, export.SVGFileName, buf.Bytes())
}

// ExportPNG downloads the flag as flag.png. Rasterizing runs off the request
// goroutine; the session stays editable meanwhile. A failure sends an error
// and no file.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	img, ok := h.imageFor(w, r)
	if !ok {
		return
	}

	cfg := h.config()
	opts := export.Options{Width: cfg.Export.Width, Height: cfg.Export.Height}
	if raw := r.URL.Query().Get("width"); raw != "" {
		width, err := strconv.Atoi(raw)
		if err != nil || width <= 0 || width > opts.Width {
			BadRequest(w, "width must be between 1 and "+strconv.Itoa(opts.Width))
			return
		}
		opts.ResizeWidth = width
	}

	exportID := id.Generate()
	result := <-export.RasterAsync(r.Context(), img, opts)
	if result.Err != nil {
		log.Printf("Export %s failed: %v", exportID, result.Err)
		Error(w, result.Err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result.Image, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		log.Printf("Export %s failed: %v", exportID, err)
		Error(w, err)
		return
	}
	log.Printf("Export %s: %d bytes", exportID, buf.Len())
	attachment(w, export.PNGContentType, export.PNGFileName, buf.Bytes())
}

// imageFor renders the flag a request refers to: the ?fragment= one when
// given, otherwise the session's current flag.
func (h *Handler) imageFor(w http.ResponseWriter, r *http.Request) (render.VectorImage, bool) {
	fragment := r.URL.Query().Get("fragment")
	if fragment == "" {
		return h.session.Controller.Render(), true
	}

	colors, err := link.Decode(fragment)
	if err != nil {
		Error(w, err)
		return render.VectorImage{}, false
	}
	return render.Render(colors), true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		BadRequest(w, "index must be an integer")
		return 0, false
	}
	return index, true
}
