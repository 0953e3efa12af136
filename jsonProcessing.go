package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/KevinWang15/go-json5"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
)

// settingsFileName is looked up next to the image being analysed.
const settingsFileName = "lineScanTraces.json5"

type Settings struct {
	Mode             string // "traces" or "trajectories"
	OutputSuffix     string
	InitialWidthPx   int
	WindowSizePixels int
	PlotWidthPixels  int
	PlotHeightPixels int
	Colormap         string
	SavePlotPNG      bool
	ShowInput        bool
	Debug            bool
}

func defaultSettings() Settings {
	return Settings{
		Mode:             "traces",
		OutputSuffix:     "_traces",
		InitialWidthPx:   linescan.DefaultWidth,
		WindowSizePixels: 800,
		PlotWidthPixels:  900,
		PlotHeightPixels: 400,
		Colormap:         "jet",
	}
}

// Title names the kind of curve being collected.
func (s Settings) Title() string {
	return s.Mode
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// loadSettings reads the settings file that sits next to imagePath. A missing file gives the
// defaults. The returned code is the exit status to use when err is not nil.
func loadSettings(imagePath string) (settings Settings, data []byte, code int, err error) {
	settings = defaultSettings()
	path := filepath.Join(filepath.Dir(imagePath), settingsFileName)

	data, err = os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil, 0, nil
	}
	if err != nil {
		return settings, nil, 2, fmt.Errorf("attempt to read settings file %q failed: %w", path, err)
	}

	var jsonTable map[string]interface{}
	if err = json.Unmarshal(data, &jsonTable); err != nil {
		return settings, nil, 3, fmt.Errorf("format error in file %q: %w", path, err)
	}

	msg, ok := validateJsonFileAndFillSettings(jsonTable, &settings)
	if !ok {
		return settings, nil, 4, fmt.Errorf("%s: %s", path, msg)
	}
	return settings, data, 0, nil
}

func validateJsonFileAndFillSettings(jsonTable map[string]interface{}, settings *Settings) (string, bool) {
	msg := "No problem found in json file" // Initialize msg to presumed success.

	mode, ok := getLeafValue(jsonTable, "mode")
	if ok {
		settings.Mode, ok = mode.(string)
		if !ok {
			msg = "mode: is not a string"
			return msg, false
		}
		switch settings.Mode {
		case "traces", "trajectories":
			settings.OutputSuffix = "_" + settings.Mode
		default:
			msg = fmt.Sprintf("mode: %q is not traces or trajectories", settings.Mode)
			return msg, false
		}
	}

	suffix, ok := getLeafValue(jsonTable, "output_suffix")
	if ok { // Overrides the suffix that goes with the mode
		settings.OutputSuffix, ok = suffix.(string)
		if !ok {
			msg = "output_suffix: is not a string"
			return msg, false
		}
	}

	width, ok := getLeafValue(jsonTable, "initial_width_px")
	if ok {
		w, ok := width.(float64)
		if !ok {
			msg = "initial_width_px: is not a float64"
			return msg, false
		}
		if w < 1 || w != float64(int(w)) || int(w)%2 == 0 {
			msg = "initial_width_px: must be an odd integer of at least 1"
			return msg, false
		}
		settings.InitialWidthPx = int(w)
	}

	windowSize, ok := getLeafValue(jsonTable, "window_size_pixels")
	if ok {
		wSize, ok := windowSize.(float64)
		if !ok || wSize < 1 {
			msg = "window_size_pixels: is not a positive float64"
			return msg, false
		}
		settings.WindowSizePixels = int(wSize)
	}

	plotWidth, ok := getLeafValue(jsonTable, "plot_width_pixels")
	if ok {
		v, ok := plotWidth.(float64)
		if !ok || v < 1 {
			msg = "plot_width_pixels: is not a positive float64"
			return msg, false
		}
		settings.PlotWidthPixels = int(v)
	}

	plotHeight, ok := getLeafValue(jsonTable, "plot_height_pixels")
	if ok {
		v, ok := plotHeight.(float64)
		if !ok || v < 1 {
			msg = "plot_height_pixels: is not a positive float64"
			return msg, false
		}
		settings.PlotHeightPixels = int(v)
	}

	cmap, ok := getLeafValue(jsonTable, "colormap")
	if ok {
		settings.Colormap, ok = cmap.(string)
		if !ok {
			msg = "colormap: is not a string"
			return msg, false
		}
		if _, err := linescan.Colormap(settings.Colormap); err != nil {
			msg = "colormap: " + err.Error()
			return msg, false
		}
	}

	savePlot, ok := getLeafValue(jsonTable, "save_plot_png_bool")
	if ok {
		settings.SavePlotPNG, ok = savePlot.(bool)
		if !ok {
			msg = "save_plot_png_bool: is not a bool"
			return msg, false
		}
	}

	showInput, ok := getLeafValue(jsonTable, "show_input_bool")
	if ok {
		settings.ShowInput, ok = showInput.(bool)
		if !ok {
			msg = "show_input_bool: is not a bool"
			return msg, false
		}
	}

	debug, ok := getLeafValue(jsonTable, "debug_bool")
	if ok {
		settings.Debug, ok = debug.(bool)
		if !ok {
			msg = "debug_bool: is not a bool"
			return msg, false
		}
	}

	return msg, true
}
