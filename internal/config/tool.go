package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigJSON is the canonical set of tool defaults. The Get* methods
// fall back to the same values when a field is omitted.
//
//go:embed defaults.json
var DefaultConfigJSON []byte

const maxFileSize = 1 * 1024 * 1024 // 1MB

// ToolConfig holds the settings shared by the frenet CLI commands.
type ToolConfig struct {
	// Field sampling
	MeshPadding    *float64 `json:"mesh_padding,omitempty"` // metres added around the path extent
	MeshResolution *int     `json:"mesh_resolution,omitempty"`
	DistanceBound  *float64 `json:"distance_bound,omitempty"` // clip for |d| in plots

	// Plot output
	ArrowStride      *int     `json:"arrow_stride,omitempty"`
	PlotWidthInches  *float64 `json:"plot_width_inches,omitempty"`
	PlotHeightInches *float64 `json:"plot_height_inches,omitempty"`

	ExpandTaperOffset *bool `json:"expand_taper_offset,omitempty"`

	// Storage and file access
	DatabasePath *string  `json:"database_path,omitempty"`
	AllowedDirs  []string `json:"allowed_dirs,omitempty"`
}

// EmptyToolConfig returns a ToolConfig with every field unset.
func EmptyToolConfig() *ToolConfig {
	return &ToolConfig{}
}

// LoadDefault parses DefaultConfigJSON.
func LoadDefault() (*ToolConfig, error) {
	return parse(DefaultConfigJSON)
}

// Load reads a ToolConfig from a .json file no larger than 1MB. Omitted
// fields keep their defaults through the Get* methods.
func Load(path string) (*ToolConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*ToolConfig, error) {
	cfg := EmptyToolConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ToolConfig) Validate() error {
	if c.MeshPadding != nil && *c.MeshPadding < 0 {
		return fmt.Errorf("mesh_padding must be non-negative, got %f", *c.MeshPadding)
	}
	if c.MeshResolution != nil && *c.MeshResolution < 2 {
		return fmt.Errorf("mesh_resolution must be at least 2, got %d", *c.MeshResolution)
	}
	if c.DistanceBound != nil && *c.DistanceBound <= 0 {
		return fmt.Errorf("distance_bound must be positive, got %f", *c.DistanceBound)
	}
	if c.ArrowStride != nil && *c.ArrowStride < 1 {
		return fmt.Errorf("arrow_stride must be at least 1, got %d", *c.ArrowStride)
	}
	if c.PlotWidthInches != nil && *c.PlotWidthInches <= 0 {
		return fmt.Errorf("plot_width_inches must be positive, got %f", *c.PlotWidthInches)
	}
	if c.PlotHeightInches != nil && *c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot_height_inches must be positive, got %f", *c.PlotHeightInches)
	}
	if c.DatabasePath != nil && *c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	return nil
}

// GetMeshPadding returns the mesh_padding value or the default.
func (c *ToolConfig) GetMeshPadding() float64 {
	if c.MeshPadding == nil {
		return 1.0
	}
	return *c.MeshPadding
}

// GetMeshResolution returns the mesh_resolution value or the default.
func (c *ToolConfig) GetMeshResolution() int {
	if c.MeshResolution == nil {
		return 200
	}
	return *c.MeshResolution
}

// GetDistanceBound returns the distance_bound value or the default.
func (c *ToolConfig) GetDistanceBound() float64 {
	if c.DistanceBound == nil {
		return 2.0
	}
	return *c.DistanceBound
}

// GetArrowStride returns the arrow_stride value or the default.
func (c *ToolConfig) GetArrowStride() int {
	if c.ArrowStride == nil {
		return 10
	}
	return *c.ArrowStride
}

func (c *ToolConfig) GetPlotWidthInches() float64 {
	if c.PlotWidthInches == nil {
		return 10
	}
	return *c.PlotWidthInches
}

func (c *ToolConfig) GetPlotHeightInches() float64 {
	if c.PlotHeightInches == nil {
		return 8
	}
	return *c.PlotHeightInches
}

// GetExpandTaperOffset returns the expand_taper_offset value or the default.
func (c *ToolConfig) GetExpandTaperOffset() bool {
	if c.ExpandTaperOffset == nil {
		return true
	}
	return *c.ExpandTaperOffset
}

// GetDatabasePath returns the database_path value or the default.
func (c *ToolConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return "frenet.db"
	}
	return *c.DatabasePath
}

// GetAllowedDirs returns the directories path files may be read from. With
// none configured only the working directory is allowed.
func (c *ToolConfig) GetAllowedDirs() []string {
	if len(c.AllowedDirs) > 0 {
		return c.AllowedDirs
	}
	cwd, err := os.Getwd()
	if err != nil {
		return []string{"."}
	}
	return []string{cwd}
}
