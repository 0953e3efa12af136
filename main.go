package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
)

const version = "1_0_0"

const usage = "Usage: LineScanTraces <image-file> [frameStart frameStop]"

// runArgs is the parsed command line.
type runArgs struct {
	ImagePath string
	Normalize bool
	Window    linescan.BaselineWindow
}

var errNoPath = errors.New("no path to data given")

// parseArgs reads the command line without the program name. The returned code is the exit
// status to use when err is not nil.
func parseArgs(args []string) (runArgs, int, error) {
	switch len(args) {
	case 1:
		return runArgs{ImagePath: args[0]}, 0, nil
	case 3:
		start, err := strconv.Atoi(args[1])
		if err != nil {
			return runArgs{}, 6, fmt.Errorf("frameStart %q is not an integer", args[1])
		}
		stop, err := strconv.Atoi(args[2])
		if err != nil {
			return runArgs{}, 6, fmt.Errorf("frameStop %q is not an integer", args[2])
		}
		return runArgs{
			ImagePath: args[0],
			Normalize: true,
			Window:    linescan.BaselineWindow{Start: start, Stop: stop},
		}, 0, nil
	default:
		return runArgs{}, 1, errNoPath
	}
}

// appView fans session updates out to the image window and the trace window.
type appView struct {
	scan   *scanView
	traces *tracePresenter
	quit   func()
}

func (v *appView) ShowBand(b linescan.Band, width int) { v.scan.ShowBand(b, width) }
func (v *appView) ShowPreview(sig linescan.Signal)     { v.traces.ShowPreview(sig) }

func (v *appView) AddSelection(rec linescan.Record) {
	v.scan.AddSelection(rec)
	v.traces.AddSelection(rec)
}

func (v *appView) Release() {
	if v.quit != nil {
		v.quit()
	}
}

// newWindows creates the image window and the trace window. Closing the image window ends the
// session; the trace window can be closed on its own.
func newWindows(a fyne.App, imagePath string, settings Settings, labels linescan.PlotLabels,
	scan *scanView, traces *tracePresenter) (fyne.Window, fyne.Window) {

	w := a.NewWindow(fmt.Sprintf("%s - place [px] across, line number down", filepath.Base(imagePath)))
	w.SetPadded(false)
	w.SetMaster()
	size := float32(settings.WindowSizePixels)
	w.Resize(fyne.NewSize(size, size))
	w.SetContent(container.NewStack(scan))
	w.SetOnClosed(scan.notifyClosed)

	w2 := a.NewWindow(fmt.Sprintf("%s (middle click to keep, wheel to change width)", labels.Title))
	w2.SetContent(container.NewCenter(traces.image))
	w2.Resize(fyne.NewSize(float32(settings.PlotWidthPixels)+50, float32(settings.PlotHeightPixels)+50))

	return w, w2
}

func main() {

	programStart := time.Now()

	ra, code, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Println(fmt.Errorf("\n\t%w\n\t%s\n", err, usage))
		os.Exit(code)
	}

	settings, settingsData, code, err := loadSettings(ra.ImagePath)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\t%w\n", err))
		os.Exit(code)
	}

	// Check for user wanting printout of the settings file
	if settings.ShowInput && settingsData != nil {
		fmt.Printf("%s", "\nPrintout of complete settings file contents...\n")
		fmt.Println(string(settingsData))
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	fmt.Printf("\nVersion %s\n\n", version)

	raw, err := linescan.LoadImage(ra.ImagePath)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tAttempt to read image %q failed: %w\n", ra.ImagePath, err))
		os.Exit(5)
	}
	nLines, nPlaces := raw.Dims()
	fmt.Printf("Image %s has %d lines of %d places\n", filepath.Base(ra.ImagePath), nLines, nPlaces)

	var data mat.Matrix = raw
	if ra.Normalize {
		norm, err := linescan.Normalize(raw, ra.Window.Start, ra.Window.Stop)
		if err != nil {
			fmt.Println(fmt.Errorf("\n\tBaseline normalisation failed: %w\n", err))
			os.Exit(7)
		}
		data = norm
		fmt.Printf("Intensities normalised to the baseline of %s\n", ra.Window)
	}

	pal, err := linescan.Colormap(settings.Colormap)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tcreation of the display image failed: %w\n", err))
		os.Exit(8)
	}
	display, err := linescan.MatrixToColorView(data, pal, 0, 100)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tcreation of the display image failed: %w\n", err))
		os.Exit(8)
	}

	labels := linescan.DefaultLabels(settings.Title(), ra.Normalize)
	outputPath := linescan.OutputPath(ra.ImagePath, settings.OutputSuffix)

	// We supply an ID (hopefully unique) because we may need to use the preferences API
	myApp := app.NewWithID("com.gmail.ok.anderson.bob.linescantraces")

	scan := newScanView(display, nPlaces)
	traces := newTracePresenter(labels, settings.PlotWidthPixels, settings.PlotHeightPixels, logger)
	view := &appView{scan: scan, traces: traces, quit: myApp.Quit}

	w, w2 := newWindows(myApp, ra.ImagePath, settings, labels, scan, traces)

	session, err := linescan.NewSession(data, linescan.SessionConfig{
		InitialWidth: settings.InitialWidthPx,
		OutputPath:   outputPath,
		View:         view,
		Logger:       logger,
	})
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tCould not start the selection session: %w\n", err))
		os.Exit(5)
	}

	var result linescan.ExportResult
	var exportErr error
	linescan.Bind(scan, session, func(res linescan.ExportResult, err error) {
		result, exportErr = res, err
	})

	w2.Show()
	w.CenterOnScreen()
	w.ShowAndRun()

	if exportErr != nil {
		fmt.Println(fmt.Errorf("\n\tSaving the selections failed: %w\n", exportErr))
		os.Exit(9)
	}

	if result.Saved && settings.SavePlotPNG {
		plotPath := linescan.PlotPath(result.Path)
		err = linescan.SaveTracesPlot(plotPath, session.Records(), labels,
			float64(settings.PlotWidthPixels), float64(settings.PlotHeightPixels))
		if err != nil {
			fmt.Println(fmt.Errorf("\n\twriting of %q failed: %w\n", plotPath, err))
			os.Exit(10)
		}
		logger.Info("trace figure saved", "path", plotPath)
	}

	elapsed := time.Since(programStart)
	fmt.Printf("\nTotal session time is %s\n", elapsed)
}
