// Package config loads and validates the diagram configuration: hub
// classification threshold, per-role box styling, layout spacing, the icon
// catalogue, and draw.io canvas attributes.
//
// Configuration files may be YAML (the shipped default format) or TOML,
// selected by file extension. A complete embedded default is used when no
// file is given, so every field behaves as an override.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
)

//go:embed config.yaml
var defaultYAML []byte

// Node roles used for style selection.
const (
	RoleHub       = "hub"
	RoleSpoke     = "spoke"
	RoleNonPeered = "non_peered"
)

// Config is the root configuration document.
type Config struct {
	Thresholds      Thresholds      `yaml:"thresholds" toml:"thresholds"`
	Styles          Styles          `yaml:"styles" toml:"styles"`
	Subnet          Style           `yaml:"subnet" toml:"subnet"`
	Layout          Layout          `yaml:"layout" toml:"layout"`
	Edges           Edges           `yaml:"edges" toml:"edges"`
	Icons           map[string]Icon `yaml:"icons" toml:"icons"`
	IconPositioning IconPositioning `yaml:"icon_positioning" toml:"icon_positioning"`
	Drawio          Drawio          `yaml:"drawio" toml:"drawio"`
}

// Thresholds holds classification thresholds.
type Thresholds struct {
	HubPeeringCount int `yaml:"hub_peering_count" toml:"hub_peering_count"`
}

// Style is a color triple for a box role.
type Style struct {
	BorderColor string `yaml:"border_color" toml:"border_color"`
	FontColor   string `yaml:"font_color" toml:"font_color"`
	FillColor   string `yaml:"fill_color" toml:"fill_color"`
}

// Styles maps node roles to box styles.
type Styles struct {
	Hub       Style `yaml:"hub" toml:"hub"`
	Spoke     Style `yaml:"spoke" toml:"spoke"`
	NonPeered Style `yaml:"non_peered" toml:"non_peered"`
}

// Layout holds all spacing and sizing constants for coordinate computation.
type Layout struct {
	Canvas struct {
		Padding float64 `yaml:"padding" toml:"padding"`
	} `yaml:"canvas" toml:"canvas"`
	Zone struct {
		Spacing float64 `yaml:"spacing" toml:"spacing"`
	} `yaml:"zone" toml:"zone"`
	VNet struct {
		Width    float64 `yaml:"width" toml:"width"`
		SpacingX float64 `yaml:"spacing_x" toml:"spacing_x"`
		SpacingY float64 `yaml:"spacing_y" toml:"spacing_y"`
	} `yaml:"vnet" toml:"vnet"`
	Hub struct {
		Width  float64 `yaml:"width" toml:"width"`
		Height float64 `yaml:"height" toml:"height"`
	} `yaml:"hub" toml:"hub"`
	Subnet struct {
		PaddingX float64 `yaml:"padding_x" toml:"padding_x"`
		PaddingY float64 `yaml:"padding_y" toml:"padding_y"`
		SpacingY float64 `yaml:"spacing_y" toml:"spacing_y"`
		Width    float64 `yaml:"width" toml:"width"`
		Height   float64 `yaml:"height" toml:"height"`
	} `yaml:"subnet" toml:"subnet"`
}

// EdgeStyle is an opaque draw.io style token for one edge family.
type EdgeStyle struct {
	Style string `yaml:"style" toml:"style"`
}

// Edges holds the styles of the three edge families.
type Edges struct {
	HubSpoke   EdgeStyle `yaml:"hub_spoke" toml:"hub_spoke"`
	SpokeSpoke EdgeStyle `yaml:"spoke_spoke" toml:"spoke_spoke"`
	CrossZone  EdgeStyle `yaml:"cross_zone" toml:"cross_zone"`
}

// Icon describes one catalogue entry.
type Icon struct {
	Path   string  `yaml:"path" toml:"path"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// IconPositioning holds offsets for the two icon rows and the virtual hub
// decorator.
type IconPositioning struct {
	VNetIcons struct {
		YOffset     float64 `yaml:"y_offset" toml:"y_offset"`
		RightMargin float64 `yaml:"right_margin" toml:"right_margin"`
		IconGap     float64 `yaml:"icon_gap" toml:"icon_gap"`
	} `yaml:"vnet_icons" toml:"vnet_icons"`
	VirtualHubIcon struct {
		OffsetX float64 `yaml:"offset_x" toml:"offset_x"`
		OffsetY float64 `yaml:"offset_y" toml:"offset_y"`
	} `yaml:"virtual_hub_icon" toml:"virtual_hub_icon"`
	SubnetIcons struct {
		IconYOffset       float64 `yaml:"icon_y_offset" toml:"icon_y_offset"`
		SubnetIconYOffset float64 `yaml:"subnet_icon_y_offset" toml:"subnet_icon_y_offset"`
		IconGap           float64 `yaml:"icon_gap" toml:"icon_gap"`
	} `yaml:"subnet_icons" toml:"subnet_icons"`
}

// Canvas holds the mxGraphModel attributes written verbatim into the file.
type Canvas struct {
	Dx         string `yaml:"dx" toml:"dx"`
	Dy         string `yaml:"dy" toml:"dy"`
	Grid       string `yaml:"grid" toml:"grid"`
	GridSize   string `yaml:"grid_size" toml:"grid_size"`
	Guides     string `yaml:"guides" toml:"guides"`
	Tooltips   string `yaml:"tooltips" toml:"tooltips"`
	Connect    string `yaml:"connect" toml:"connect"`
	Arrows     string `yaml:"arrows" toml:"arrows"`
	Fold       string `yaml:"fold" toml:"fold"`
	Page       string `yaml:"page" toml:"page"`
	PageScale  string `yaml:"page_scale" toml:"page_scale"`
	PageWidth  string `yaml:"page_width" toml:"page_width"`
	PageHeight string `yaml:"page_height" toml:"page_height"`
	Math       string `yaml:"math" toml:"math"`
	Shadow     string `yaml:"shadow" toml:"shadow"`
}

// Drawio holds format-writer specific settings.
type Drawio struct {
	Canvas Canvas `yaml:"canvas" toml:"canvas"`
	Group  struct {
		ExtraHeight float64 `yaml:"extra_height" toml:"extra_height"`
		Connectable string  `yaml:"connectable" toml:"connectable"`
	} `yaml:"group" toml:"group"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parseYAML(defaultYAML)
	if err != nil {
		// The embedded document is part of the build; failing to parse it
		// is a programming error.
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Load reads a configuration file, dispatching on extension (.yaml/.yml or
// .toml). An empty path returns the embedded default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "configuration file %s not found", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	case ".toml":
		cfg, err = parseTOML(data)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unsupported config format %q (use .yaml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the layout engine depends on.
func (c *Config) Validate() error {
	if c.Thresholds.HubPeeringCount < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "thresholds.hub_peering_count must be >= 1, got %d", c.Thresholds.HubPeeringCount)
	}
	if c.Layout.VNet.Width <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout.vnet.width must be positive, got %g", c.Layout.VNet.Width)
	}
	if c.Layout.Subnet.SpacingY <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout.subnet.spacing_y must be positive, got %g", c.Layout.Subnet.SpacingY)
	}
	for _, kind := range []string{"vnet", "virtual_hub", "expressroute", "firewall", "vpn_gateway", "subnet", "nsg", "route_table"} {
		if _, ok := c.Icons[kind]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "icons: missing catalogue entry %q", kind)
		}
	}
	return nil
}

// HubThreshold returns the peering count threshold for hub classification.
func (c *Config) HubThreshold() int {
	return c.Thresholds.HubPeeringCount
}

// VNetStyle returns the draw.io style string for a node box of the given
// role (RoleHub, RoleSpoke, RoleNonPeered). Unknown roles fall back to the
// hub style.
func (c *Config) VNetStyle(role string) string {
	var s Style
	switch role {
	case RoleSpoke:
		s = c.Styles.Spoke
	case RoleNonPeered:
		s = c.Styles.NonPeered
	default:
		s = c.Styles.Hub
	}
	return fmt.Sprintf(
		"shape=rectangle;rounded=1;whiteSpace=wrap;html=1;strokeColor=%s;fontColor=%s;fillColor=%s;verticalAlign=top",
		s.BorderColor, s.FontColor, s.FillColor)
}

// SubnetStyle returns the draw.io style string for subnet rows.
func (c *Config) SubnetStyle() string {
	return fmt.Sprintf(
		"shape=rectangle;rounded=1;whiteSpace=wrap;html=1;strokeColor=%s;fontColor=%s;fillColor=%s",
		c.Subnet.BorderColor, c.Subnet.FontColor, c.Subnet.FillColor)
}

// IconStyle returns the draw.io style string for an icon of the given kind.
func (c *Config) IconStyle(kind string) string {
	return fmt.Sprintf("shape=image;html=1;image=%s;", c.Icons[kind].Path)
}
