package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linea-app/linea/backend-go/internal/document"
)

const maxRequestSize = 20 << 20 // 20MB

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type exportRequest struct {
	Document *document.LineaDocument `json:"document"`
	SceneID  string                  `json:"sceneId"`
	Name     string                  `json:"name"`
}

// ExportSVG handles POST /export/svg. The client sends the document
// and scene to render and gets the SVG back as a download.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Document == nil {
		http.Error(w, "document is required", http.StatusBadRequest)
		return
	}

	sceneID := req.SceneID
	if sceneID == "" && len(req.Document.Project.Scenes) > 0 {
		sceneID = req.Document.Project.Scenes[0]
	}

	svg, err := RenderSVG(req.Document, sceneID)
	if err != nil {
		slog.Warn("render svg", "error", err, "scene", sceneID)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := sanitizeFilename(req.Name)
	if name == "" {
		name = "drawing"
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
