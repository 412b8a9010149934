package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// RenderSVG serializes one scene of a document to an SVG string.
// Elements are rendered in paint order, groups recurse into children.
func RenderSVG(doc *document.LineaDocument, sceneID string) (string, error) {
	scene, ok := doc.Scenes[sceneID]
	if !ok {
		return "", fmt.Errorf("scene not found: %s", sceneID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		scene.Width, scene.Height, scene.Width, scene.Height)
	b.WriteString("\n")
	if scene.Background != "" {
		fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s"/>`, scene.Width, scene.Height, scene.Background)
		b.WriteString("\n")
	}

	for _, id := range scene.RootIDs {
		renderElement(&b, doc, id, 1)
	}

	b.WriteString("</svg>\n")
	return b.String(), nil
}

func renderElement(b *strings.Builder, doc *document.LineaDocument, id string, depth int) {
	el, ok := doc.Elements[id]
	if !ok || !el.Visible {
		return
	}

	indent := strings.Repeat("  ", depth)
	attrs := styleAttrs(&el)

	switch el.Type {
	case document.TypeGroup:
		fmt.Fprintf(b, "%s<g%s>\n", indent, rotationAttr(&el, groupCenter(doc, &el)))
		for _, childID := range el.ChildIDs {
			renderElement(b, doc, childID, depth+1)
		}
		fmt.Fprintf(b, "%s</g>\n", indent)

	case document.TypeRect:
		fmt.Fprintf(b, "%s<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\"%s%s/>\n",
			indent, num(el.X), num(el.Y), num(el.Width), num(el.Height),
			attrs, rotationAttr(&el, [2]float64{el.X + el.Width/2, el.Y + el.Height/2}))

	case document.TypeEllipse:
		fmt.Fprintf(b, "%s<ellipse cx=\"%s\" cy=\"%s\" rx=\"%s\" ry=\"%s\"%s%s/>\n",
			indent, num(el.CX), num(el.CY), num(el.RX), num(el.RY),
			attrs, rotationAttr(&el, [2]float64{el.CX, el.CY}))

	case document.TypeLine:
		fmt.Fprintf(b, "%s<line x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\"%s/>\n",
			indent, num(el.X1), num(el.Y1), num(el.X2), num(el.Y2), attrs)

	case document.TypePath:
		fmt.Fprintf(b, "%s<path d=\"%s\"%s%s/>\n",
			indent, el.D, attrs,
			rotationAttr(&el, [2]float64{el.X + el.Width/2, el.Y + el.Height/2}))

	case document.TypePolygon, document.TypePolyline:
		tag := "polygon"
		if el.Type == document.TypePolyline {
			tag = "polyline"
		}
		pts := make([]string, len(el.Points))
		for i, p := range el.Points {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		fmt.Fprintf(b, "%s<%s points=\"%s\"%s/>\n", indent, tag, strings.Join(pts, " "), attrs)

	case document.TypeText:
		fmt.Fprintf(b, "%s<text x=\"%s\" y=\"%s\" font-size=\"%s\"%s%s>%s</text>\n",
			indent, num(el.X), num(el.Y+el.FontSize), num(el.FontSize),
			attrs, rotationAttr(&el, [2]float64{el.X + el.Width/2, el.Y + el.Height/2}),
			html.EscapeString(el.Text))

	case document.TypeImage:
		fmt.Fprintf(b, "%s<image x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" href=\"/assets/%s.png\"%s/>\n",
			indent, num(el.X), num(el.Y), num(el.Width), num(el.Height), el.AssetID,
			rotationAttr(&el, [2]float64{el.X + el.Width/2, el.Y + el.Height/2}))
	}
}

func styleAttrs(el *document.Element) string {
	var b strings.Builder
	if el.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, el.Fill)
	} else if el.Type == document.TypeLine || el.Type == document.TypePolyline {
		b.WriteString(` fill="none"`)
	}
	if el.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s"`, el.Stroke)
	}
	if el.Opacity > 0 && el.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, num(el.Opacity))
	}
	return b.String()
}

// rotationAttr emits a transform attribute rotating about the given
// center. Rotation is stored in radians, SVG wants degrees.
func rotationAttr(el *document.Element, center [2]float64) string {
	if el.Rotation == 0 {
		return ""
	}
	deg := el.Rotation * 180 / math.Pi
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(deg), num(center[0]), num(center[1]))
}

func groupCenter(doc *document.LineaDocument, group *document.Element) [2]float64 {
	var minX, minY, maxX, maxY float64
	first := true
	for _, id := range group.ChildIDs {
		child, ok := doc.Elements[id]
		if !ok {
			continue
		}
		x0, y0, x1, y1 := roughExtent(&child)
		if first {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			first = false
			continue
		}
		minX = math.Min(minX, x0)
		minY = math.Min(minY, y0)
		maxX = math.Max(maxX, x1)
		maxY = math.Max(maxY, y1)
	}
	if first {
		return [2]float64{0, 0}
	}
	return [2]float64{(minX + maxX) / 2, (minY + maxY) / 2}
}

func roughExtent(el *document.Element) (float64, float64, float64, float64) {
	switch el.Type {
	case document.TypeEllipse:
		return el.CX - el.RX, el.CY - el.RY, el.CX + el.RX, el.CY + el.RY
	case document.TypeLine:
		return math.Min(el.X1, el.X2), math.Min(el.Y1, el.Y2),
			math.Max(el.X1, el.X2), math.Max(el.Y1, el.Y2)
	case document.TypePolygon, document.TypePolyline:
		if len(el.Points) == 0 {
			return 0, 0, 0, 0
		}
		minX, minY := el.Points[0].X, el.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range el.Points[1:] {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		return minX, minY, maxX, maxY
	default:
		return el.X, el.Y, el.X + el.Width, el.Y + el.Height
	}
}

func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
