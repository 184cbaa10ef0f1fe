package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mastercactapus/meshradar/coord"
	"github.com/mastercactapus/meshradar/grid"
	"github.com/mastercactapus/meshradar/radar"
	"github.com/mastercactapus/meshradar/reach"
)

// Config holds the server options.
type Config struct {
	Addr string
	Port string
	Baud int
	SPJS string

	PointsX, PointsY int

	BedMinX, BedMaxX       float64
	BedMinY, BedMaxY       float64
	TravelMinX, TravelMaxX float64
	TravelMinY, TravelMaxY float64
	Inset                  float64

	Kinematics   string
	PrintRadius  float64
	EnvelopeFile string

	RelativeInput bool
	EnterMode     string
	FrameInterval time.Duration
	Pages         int
	Feed          float64
	SimDelay      time.Duration
}

// envConfig supplies the flag defaults.
type envConfig struct {
	Addr string `env:"MESHRADAR_ADDR" envDefault:":9091"`
	Port string `env:"MESHRADAR_PORT" envDefault:"sim"`
	Baud int    `env:"MESHRADAR_BAUD" envDefault:"115200"`
	SPJS string `env:"MESHRADAR_SPJS"`

	PointsX int `env:"MESHRADAR_POINTS_X" envDefault:"8"`
	PointsY int `env:"MESHRADAR_POINTS_Y" envDefault:"8"`

	BedMinX    float64 `env:"MESHRADAR_BED_MIN_X" envDefault:"0"`
	BedMaxX    float64 `env:"MESHRADAR_BED_MAX_X" envDefault:"235"`
	BedMinY    float64 `env:"MESHRADAR_BED_MIN_Y" envDefault:"0"`
	BedMaxY    float64 `env:"MESHRADAR_BED_MAX_Y" envDefault:"235"`
	TravelMinX float64 `env:"MESHRADAR_TRAVEL_MIN_X" envDefault:"0"`
	TravelMaxX float64 `env:"MESHRADAR_TRAVEL_MAX_X" envDefault:"235"`
	TravelMinY float64 `env:"MESHRADAR_TRAVEL_MIN_Y" envDefault:"0"`
	TravelMaxY float64 `env:"MESHRADAR_TRAVEL_MAX_Y" envDefault:"235"`
	Inset      float64 `env:"MESHRADAR_INSET" envDefault:"25"`

	Kinematics   string  `env:"MESHRADAR_KINEMATICS" envDefault:"cartesian"`
	PrintRadius  float64 `env:"MESHRADAR_PRINT_RADIUS"`
	EnvelopeFile string  `env:"MESHRADAR_ENVELOPE_FILE"`

	RelativeInput bool          `env:"MESHRADAR_RELATIVE_INPUT"`
	EnterMode     string        `env:"MESHRADAR_ENTER_MODE" envDefault:"resume"`
	FrameInterval time.Duration `env:"MESHRADAR_FRAME_INTERVAL" envDefault:"100ms"`
	Pages         int           `env:"MESHRADAR_PAGES" envDefault:"1"`
	Feed          float64       `env:"MESHRADAR_FEED" envDefault:"3000"`
	SimDelay      time.Duration `env:"MESHRADAR_SIM_DELAY" envDefault:"250ms"`
}

// ParseConfig parses flags into a Config, defaulting from the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := Config(e)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to bind the server to.")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Port path (or name if using SPJS), 'sim' for a simulated printer.")
	fs.IntVar(&cfg.Baud, "baud", cfg.Baud, "Serial baud rate.")
	fs.StringVar(&cfg.SPJS, "spjs", cfg.SPJS, "Websocket URL of the SPJS server to use.")

	fs.IntVar(&cfg.PointsX, "points-x", cfg.PointsX, "Grid points along X.")
	fs.IntVar(&cfg.PointsY, "points-y", cfg.PointsY, "Grid points along Y.")
	fs.Float64Var(&cfg.BedMinX, "bed-min-x", cfg.BedMinX, "Bed minimum X.")
	fs.Float64Var(&cfg.BedMaxX, "bed-max-x", cfg.BedMaxX, "Bed maximum X.")
	fs.Float64Var(&cfg.BedMinY, "bed-min-y", cfg.BedMinY, "Bed minimum Y.")
	fs.Float64Var(&cfg.BedMaxY, "bed-max-y", cfg.BedMaxY, "Bed maximum Y.")
	fs.Float64Var(&cfg.TravelMinX, "travel-min-x", cfg.TravelMinX, "Minimum reachable X.")
	fs.Float64Var(&cfg.TravelMaxX, "travel-max-x", cfg.TravelMaxX, "Maximum reachable X.")
	fs.Float64Var(&cfg.TravelMinY, "travel-min-y", cfg.TravelMinY, "Minimum reachable Y.")
	fs.Float64Var(&cfg.TravelMaxY, "travel-max-y", cfg.TravelMaxY, "Maximum reachable Y.")
	fs.Float64Var(&cfg.Inset, "inset", cfg.Inset, "Distance kept between the grid and the bed edge.")

	fs.StringVar(&cfg.Kinematics, "kinematics", cfg.Kinematics, "One of cartesian, corexy, bounded, delta, polar, envelope.")
	fs.Float64Var(&cfg.PrintRadius, "print-radius", cfg.PrintRadius, "Printable radius around the bed center (delta, polar).")
	fs.StringVar(&cfg.EnvelopeFile, "envelope", cfg.EnvelopeFile, "JSON file of reachable XY points (envelope).")

	fs.BoolVar(&cfg.RelativeInput, "relative-input", cfg.RelativeInput, "Treat encoder input as relative (touch screens).")
	fs.StringVar(&cfg.EnterMode, "enter-mode", cfg.EnterMode, "Selection on entering the radar: resume, reissue, or reset.")
	fs.DurationVar(&cfg.FrameInterval, "frame-interval", cfg.FrameInterval, "Display refresh interval.")
	fs.IntVar(&cfg.Pages, "pages", cfg.Pages, "Draw pages per frame.")
	fs.Float64Var(&cfg.Feed, "feed", cfg.Feed, "XY feed rate in mm/min (0 keeps the firmware's).")
	fs.DurationVar(&cfg.SimDelay, "sim-delay", cfg.SimDelay, "Time each simulated move takes.")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Grid builds the mesh grid.
func (cfg Config) Grid() (*grid.Grid, error) {
	return grid.New(grid.Config{
		PointsX: cfg.PointsX,
		PointsY: cfg.PointsY,
		X: grid.Bounds{
			BedMin:    cfg.BedMinX,
			BedMax:    cfg.BedMaxX,
			TravelMin: cfg.TravelMinX,
			TravelMax: cfg.TravelMaxX,
			Inset:     cfg.Inset,
		},
		Y: grid.Bounds{
			BedMin:    cfg.BedMinY,
			BedMax:    cfg.BedMaxY,
			TravelMin: cfg.TravelMinY,
			TravelMax: cfg.TravelMaxY,
			Inset:     cfg.Inset,
		},
	})
}

// Policy builds the reachability policy for the configured kinematics.
func (cfg Config) Policy() (reach.Policy, error) {
	opts := reach.Options{
		Kinematics:  cfg.Kinematics,
		PrintRadius: cfg.PrintRadius,
		CenterX:     (cfg.BedMinX + cfg.BedMaxX) / 2,
		CenterY:     (cfg.BedMinY + cfg.BedMaxY) / 2,
		Travel: reach.Rect{
			MinX: cfg.TravelMinX, MinY: cfg.TravelMinY,
			MaxX: cfg.TravelMaxX, MaxY: cfg.TravelMaxY,
		},
	}
	if cfg.Kinematics == "envelope" {
		pts, err := loadEnvelope(cfg.EnvelopeFile)
		if err != nil {
			return nil, err
		}
		opts.EnvelopePoints = pts
	}
	return reach.ForKinematics(opts)
}

func loadEnvelope(name string) ([]coord.Point, error) {
	if name == "" {
		return nil, errors.New("envelope kinematics requires an envelope file")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	var pts []coord.Point
	err = json.Unmarshal(data, &pts)
	if err != nil {
		return nil, fmt.Errorf("parse envelope '%s': %w", name, err)
	}
	return pts, nil
}

// Navigator builds the radar navigator moving with mover.
func (cfg Config) Navigator(mover radar.Mover) (*radar.Navigator, error) {
	g, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	mode, err := radar.ParseEnterMode(cfg.EnterMode)
	if err != nil {
		return nil, err
	}
	return radar.New(radar.Config{
		Grid:          g,
		Policy:        policy,
		Mover:         mover,
		RelativeInput: cfg.RelativeInput,
		OnEnter:       mode,
	}), nil
}
