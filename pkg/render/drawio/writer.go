// Package drawio serializes a computed layout tree into a draw.io (mxfile)
// document. The translation is purely mechanical: every group, box, icon,
// and edge becomes one mx element, with styles and canvas attributes taken
// verbatim from the configuration.
package drawio

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/layout"
)

// rootCellID is the draw.io default layer every top-level element attaches
// to.
const rootCellID = "1"

// ===== mx document model =====

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string  `xml:"id,attr"`
	Name  string  `xml:"name,attr"`
	Model mxModel `xml:"mxGraphModel"`
}

type mxModel struct {
	Dx         string `xml:"dx,attr"`
	Dy         string `xml:"dy,attr"`
	Grid       string `xml:"grid,attr"`
	GridSize   string `xml:"gridSize,attr"`
	Guides     string `xml:"guides,attr"`
	Tooltips   string `xml:"tooltips,attr"`
	Connect    string `xml:"connect,attr"`
	Arrows     string `xml:"arrows,attr"`
	Fold       string `xml:"fold,attr"`
	Page       string `xml:"page,attr"`
	PageScale  string `xml:"pageScale,attr"`
	PageWidth  string `xml:"pageWidth,attr"`
	PageHeight string `xml:"pageHeight,attr"`
	Math       string `xml:"math,attr"`
	Shadow     string `xml:"shadow,attr"`
	Root       mxRoot `xml:"root"`
}

// mxRoot interleaves mxCell and object children in placement order, so the
// element list is []any rather than per-type slices.
type mxRoot struct {
	Cells []any
}

type mxCell struct {
	XMLName     xml.Name    `xml:"mxCell"`
	ID          string      `xml:"id,attr,omitempty"`
	Value       string      `xml:"value,attr,omitempty"`
	Style       string      `xml:"style,attr,omitempty"`
	Vertex      string      `xml:"vertex,attr,omitempty"`
	Edge        string      `xml:"edge,attr,omitempty"`
	Connectable string      `xml:"connectable,attr,omitempty"`
	Parent      string      `xml:"parent,attr,omitempty"`
	Source      string      `xml:"source,attr,omitempty"`
	Target      string      `xml:"target,attr,omitempty"`
	Geometry    *mxGeometry `xml:"mxGeometry,omitempty"`
}

// mxObject wraps a cell with metadata attributes so draw.io shows them in
// the element inspector and makes the label a hyperlink.
type mxObject struct {
	XMLName       xml.Name `xml:"object"`
	ID            string   `xml:"id,attr"`
	Label         string   `xml:"label,attr"`
	Link          string   `xml:"link,attr,omitempty"`
	Subscription  string   `xml:"subscription,attr,omitempty"`
	ResourceGroup string   `xml:"resourcegroup,attr,omitempty"`
	Tenant        string   `xml:"tenant,attr,omitempty"`
	Cell          mxCell   `xml:"mxCell"`
}

type mxGeometry struct {
	XMLName  xml.Name  `xml:"mxGeometry"`
	X        string    `xml:"x,attr,omitempty"`
	Y        string    `xml:"y,attr,omitempty"`
	Width    string    `xml:"width,attr,omitempty"`
	Height   string    `xml:"height,attr,omitempty"`
	Relative string    `xml:"relative,attr,omitempty"`
	As       string    `xml:"as,attr"`
	Points   *mxPoints `xml:"Array,omitempty"`
}

type mxPoints struct {
	As     string    `xml:"as,attr"`
	Points []mxPoint `xml:"mxPoint"`
}

type mxPoint struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

// ===== Writer =====

// Write serializes the diagram as an mxfile document.
func Write(w io.Writer, d *layout.Diagram, cfg *config.Config) error {
	doc := build(d, cfg)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "write drawio header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode drawio document")
	}
	return enc.Flush()
}

// WriteFile serializes the diagram to a file.
func WriteFile(path string, d *layout.Diagram, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()

	if err := Write(f, d, cfg); err != nil {
		return err
	}
	return f.Close()
}

func build(d *layout.Diagram, cfg *config.Config) *mxFile {
	canvas := cfg.Drawio.Canvas
	doc := &mxFile{
		Host: "cloudnetdraw",
		Diagram: mxDiagram{
			ID:   uuid.NewString(),
			Name: "Network Topology",
			Model: mxModel{
				Dx: canvas.Dx, Dy: canvas.Dy,
				Grid: canvas.Grid, GridSize: canvas.GridSize,
				Guides: canvas.Guides, Tooltips: canvas.Tooltips,
				Connect: canvas.Connect, Arrows: canvas.Arrows,
				Fold: canvas.Fold, Page: canvas.Page,
				PageScale: canvas.PageScale,
				PageWidth: canvas.PageWidth, PageHeight: canvas.PageHeight,
				Math: canvas.Math, Shadow: canvas.Shadow,
			},
		},
	}

	root := &doc.Diagram.Model.Root
	root.Cells = append(root.Cells,
		mxCell{ID: "0"},
		mxCell{ID: rootCellID, Parent: "0"},
	)

	for _, g := range d.Groups {
		root.Cells = append(root.Cells, mxCell{
			ID:          g.ID,
			Style:       "group",
			Vertex:      "1",
			Connectable: cfg.Drawio.Group.Connectable,
			Parent:      rootCellID,
			Geometry:    vertexGeometry(g.X, g.Y, g.Width, g.Height),
		})
	}

	for _, b := range d.Boxes {
		root.Cells = append(root.Cells, boxElement(b, cfg))
	}

	for _, ic := range d.Icons {
		root.Cells = append(root.Cells, mxCell{
			ID:       ic.ID,
			Style:    cfg.IconStyle(ic.Kind),
			Vertex:   "1",
			Parent:   ic.ParentID,
			Geometry: vertexGeometry(ic.X, ic.Y, ic.Width, ic.Height),
		})
	}

	for _, e := range d.Edges {
		root.Cells = append(root.Cells, edgeElement(e))
	}
	return doc
}

// boxElement emits a plain cell for subnet rows and an object-wrapped cell
// for node boxes, carrying the source metadata for the inspector and the
// portal hyperlink.
func boxElement(b layout.Box, cfg *config.Config) any {
	style := cfg.SubnetStyle()
	if b.Role != layout.BoxRoleSubnet {
		style = cfg.VNetStyle(b.Role)
	}

	cell := mxCell{
		Style:    style,
		Vertex:   "1",
		Parent:   b.ParentID,
		Geometry: vertexGeometry(b.X, b.Y, b.Width, b.Height),
	}

	if b.Node == nil {
		cell.ID = b.ID
		cell.Value = b.Label
		return cell
	}
	return mxObject{
		ID:            b.ID,
		Label:         b.Label,
		Link:          b.Node.ConsoleURL,
		Subscription:  b.Node.SubscriptionName,
		ResourceGroup: b.Node.ResourceGroupName,
		Tenant:        b.Node.TenantID,
		Cell:          cell,
	}
}

func edgeElement(e layout.Edge) mxCell {
	geo := &mxGeometry{Relative: "1", As: "geometry"}
	if len(e.Points) > 0 {
		pts := &mxPoints{As: "points"}
		for _, p := range e.Points {
			pts.Points = append(pts.Points, mxPoint{X: num(p.X), Y: num(p.Y)})
		}
		geo.Points = pts
	}
	return mxCell{
		ID:       e.ID,
		Style:    e.Style,
		Edge:     "1",
		Parent:   rootCellID,
		Source:   e.SourceID,
		Target:   e.TargetID,
		Geometry: geo,
	}
}

func vertexGeometry(x, y, w, h float64) *mxGeometry {
	return &mxGeometry{
		X: num(x), Y: num(y),
		Width: num(w), Height: num(h),
		As: "geometry",
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
