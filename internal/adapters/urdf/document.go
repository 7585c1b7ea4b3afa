// Package urdf reads and patches robot-description documents. Structural
// queries and attribute rewrites go through an XML tree; the inertial block
// is inserted as literal text so that untouched parts of the file survive
// byte-for-byte, which is what makes repeated runs no-ops.
package urdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"scenegen/internal/core/domain"
)

// Document is a robot-description file held in memory.
type Document struct {
	Path string
	raw  string
}

// Load reads a description file and normalizes it so the XML declaration,
// when present, sits at the very start. Some exported files carry stray
// bytes (BOM, whitespace, even trailing junk moved before the declaration)
// that break strict parsers.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}

	raw := cleanContent(string(data))

	// Fail early on malformed markup so callers can skip the file.
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Document{Path: path, raw: raw}, nil
}

// cleanContent strips anything that precedes the XML declaration, including
// a UTF-8 BOM. Content without a declaration is returned unchanged.
func cleanContent(raw string) string {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	if pos := strings.Index(raw, "<?xml"); pos > 0 {
		return raw[pos:] + raw[:pos]
	}
	return raw
}

// Content returns the current document text.
func (d *Document) Content() string {
	return d.raw
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	if err := os.WriteFile(d.Path, []byte(d.raw), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	return nil
}

// HasInertial reports whether the first link already carries an inertial
// block. Patching is skipped for such files.
func (d *Document) HasInertial() bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(d.raw); err != nil {
		return false
	}
	return doc.FindElement("//link/inertial") != nil
}

// InsertInertial inserts a formatted inertial block immediately after the
// first closing collision tag. The rest of the document is left untouched.
func (d *Document) InsertInertial(props domain.InertialProperties) error {
	const closeTag = "</collision>"
	pos := strings.Index(d.raw, closeTag)
	if pos < 0 {
		return fmt.Errorf("no collision block in %s", d.Path)
	}
	insertAt := pos + len(closeTag)

	t := props.Tensor
	block := fmt.Sprintf(`
    <inertial>
      <mass value="%.6f" />
      <origin xyz="%.6f %.6f %.6f" />
      <inertia ixx="%.6f" ixy="%.6f" ixz="%.6f"
               iyy="%.6f" iyz="%.6f" izz="%.6f" />
    </inertial>`,
		props.Mass,
		props.CenterOfMass.X, props.CenterOfMass.Y, props.CenterOfMass.Z,
		t.At(0, 0), t.At(0, 1), t.At(0, 2),
		t.At(1, 1), t.At(1, 2), t.At(2, 2))

	after := d.raw[insertAt:]
	if !strings.HasPrefix(after, "\n") {
		block += "\n"
	}
	d.raw = d.raw[:insertAt] + block + after
	return nil
}

// RewriteMeshPaths rewrites every mesh filename attribute that points at a
// local .stl file into a package-relative URI: package://<rel>/<file>.
// Returns the number of rewritten references; when zero, the document text
// is left exactly as loaded.
func (d *Document) RewriteMeshPaths(packageRel string) (int, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(d.raw); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", d.Path, err)
	}

	rewritten := 0
	for _, mesh := range doc.FindElements("//mesh") {
		current := mesh.SelectAttrValue("filename", "")
		if current == "" || !strings.HasSuffix(current, ".stl") {
			continue
		}
		base := current
		if i := strings.LastIndexAny(current, "/\\"); i >= 0 {
			base = current[i+1:]
		}
		next := fmt.Sprintf("package://%s/%s", packageRel, base)
		if current == next {
			continue
		}
		mesh.CreateAttr("filename", next)
		rewritten++
	}
	if rewritten == 0 {
		return 0, nil
	}

	out, err := doc.WriteToString()
	if err != nil {
		return 0, fmt.Errorf("failed to serialize %s: %w", d.Path, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		out = `<?xml version="1.0" encoding="utf-8"?>` + "\n" + out
	}
	d.raw = out
	return rewritten, nil
}

// MeshReferences returns the filename attribute of every mesh element, in
// document order. Used by the verification pass after a rewrite.
func (d *Document) MeshReferences() ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(d.raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", d.Path, err)
	}
	var refs []string
	for _, mesh := range doc.FindElements("//mesh") {
		if v := mesh.SelectAttrValue("filename", ""); v != "" {
			refs = append(refs, v)
		}
	}
	return refs, nil
}
