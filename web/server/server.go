package server

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders, small enough for frequent tile updates
const DefaultTileSize = 32

// Parameter limits shared by request parsing and /api/scene-config
const (
	minWidth, maxWidth            = 100, 2000
	minSamples, maxSamplesLimit   = 1, 10000
	minPasses, maxPassesLimit     = 1, 10000
	minDepth, maxDepthLimit       = 1, 100
	minAperture, maxApertureLimit = 0.0, 2.0
)

//go:embed static
var staticFiles embed.FS

// Server handles web requests for the progressive path tracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string   `json:"scene"`      // Built-in scene name (e.g., "random-spheres")
	Width      int      `json:"width"`      // Image width, height follows the scene's aspect ratio
	Aperture   *float64 `json:"aperture"`   // Lens aperture override, nil keeps the scene's, 0 disables depth of field
	MaxSamples int      `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int      `json:"maxPasses"`  // Maximum number of passes
	MaxDepth   int      `json:"maxDepth"`   // Maximum bounce depth
	Seed       int64    `json:"seed"`       // Base seed for the tile random streams
}

// Handler returns the HTTP handler serving the static UI and the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve the embedded UI
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// parseCommonSceneParams parses the parameters shared by render and inspect requests
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return err
	}
	if query.Get("aperture") != "" {
		aperture, err := parseFloatParam(query, "aperture", 0, minAperture, maxApertureLimit)
		if err != nil {
			return err
		}
		req.Aperture = &aperture
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if math.IsNaN(parsed) || parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene creates the requested scene with the request's camera and depth overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene, geometry.CameraConfig{Width: req.Width})
	if err != nil {
		return nil, err
	}
	// Applied after the merge so that 0 can switch the lens off
	if req.Aperture != nil {
		sceneObj.CameraConfig.Aperture = *req.Aperture
		sceneObj.Camera = geometry.NewCamera(sceneObj.CameraConfig)
	}
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeJSONError writes {"error": message}
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Return the scene's sampling configuration with validation limits
	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"aperture":        sceneObj.CameraConfig.Aperture,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minWidth, "max": maxWidth},
			"maxSamples": map[string]int{"min": minSamples, "max": maxSamplesLimit},
			"maxPasses":  map[string]int{"min": minPasses, "max": maxPassesLimit},
			"maxDepth":   map[string]int{"min": minDepth, "max": maxDepthLimit},
			"aperture":   map[string]float64{"min": minAperture, "max": maxApertureLimit},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
