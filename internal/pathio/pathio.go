package pathio

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/frenet/internal/frenet"
	"github.com/banshee-data/frenet/internal/monitoring"
	"github.com/banshee-data/frenet/internal/security"
)

// Format identifies a path file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for unknown extensions or format names.
var ErrUnsupportedFormat = errors.New("unsupported path format")

const maxFileSize = 16 * 1024 * 1024 // 16MB

var logf = monitoring.NewPrefixLogger("pathio")

// Path is a named reference path as stored in a file.
type Path struct {
	Name        string
	Description string
	Vertices    []r2.Vec
}

// document is the on-disk JSON and YAML shape.
type document struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Vertices    [][2]float64 `json:"vertices" yaml:"vertices"`
}

// Matcher builds a matcher over the path's vertices.
func (p *Path) Matcher() (*frenet.PathMatcher, error) {
	m, err := frenet.New(p.Vertices)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", p.Name, err)
	}
	return m, nil
}

// FormatFromExt maps a file name to its Format.
func FormatFromExt(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and validates a path file that must lie within allowedDirs. A
// path without a name takes the file's base name.
func Load(path string, allowedDirs []string) (*Path, error) {
	format, err := FormatFromExt(path)
	if err != nil {
		return nil, err
	}
	if err := security.ValidatePathWithinAllowedDirs(path, allowedDirs); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open path file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat path file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("path file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	p, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if _, err := p.Matcher(); err != nil {
		return nil, err
	}
	if monitoring.Verbose() {
		logf("loaded %q from %s: %d vertices", p.Name, path, len(p.Vertices))
	}
	return p, nil
}

// Save writes p to path in the format implied by its extension. The target
// must be a permitted output location.
func Save(path string, p *Path, allowedDirs []string) error {
	format, err := FormatFromExt(path)
	if err != nil {
		return err
	}
	if err := security.ValidateOutputPath(path, allowedDirs); err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create path file: %w", err)
	}
	if err := Encode(f, format, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close path file: %w", err)
	}
	logf("wrote %q to %s", p.Name, path)
	return nil
}

// Decode parses a path in the given format. The result is not validated.
func Decode(r io.Reader, format Format) (*Path, error) {
	switch format {
	case FormatJSON:
		var doc document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode JSON path: %w", err)
		}
		return doc.path(), nil
	case FormatYAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode YAML path: %w", err)
		}
		return doc.path(), nil
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode writes p in the given format.
func Encode(w io.Writer, format Format, p *Path) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newDocument(p)); err != nil {
			return fmt.Errorf("encode JSON path: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(p)); err != nil {
			return fmt.Errorf("encode YAML path: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return encodeCSV(w, p)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func newDocument(p *Path) document {
	doc := document{Name: p.Name, Description: p.Description, Vertices: make([][2]float64, len(p.Vertices))}
	for i, v := range p.Vertices {
		doc.Vertices[i] = [2]float64{v.X, v.Y}
	}
	return doc
}

func (d document) path() *Path {
	p := &Path{Name: d.Name, Description: d.Description, Vertices: make([]r2.Vec, len(d.Vertices))}
	for i, v := range d.Vertices {
		p.Vertices[i] = r2.Vec{X: v[0], Y: v[1]}
	}
	return p
}

func decodeCSV(r io.Reader) (*Path, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	p := &Path{}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode CSV path: %w", err)
		}
		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errY != nil {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("decode CSV path: row %d: invalid coordinate %q,%q", row, rec[0], rec[1])
		}
		p.Vertices = append(p.Vertices, r2.Vec{X: x, Y: y})
	}
	return p, nil
}

func encodeCSV(w io.Writer, p *Path) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("encode CSV path: %w", err)
	}
	for _, v := range p.Vertices {
		rec := []string{
			strconv.FormatFloat(v.X, 'g', -1, 64),
			strconv.FormatFloat(v.Y, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode CSV path: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode CSV path: %w", err)
	}
	return nil
}
