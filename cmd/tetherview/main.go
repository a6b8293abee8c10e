// Command tetherview shows a scene and lets you try every placement on it.
// The scroll slider scrolls the window; autoUpdate keeps the floating
// element attached while it moves.
package main

import (
	"fmt"
	"image"
	"math"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"tether/internal/config"
	"tether/internal/observability"
	"tether/pkg/floating"
	"tether/pkg/js"
	"tether/pkg/placement"
	"tether/pkg/render"
	"tether/pkg/scene"
)

func main() {
	cfg := config.NewDefaultConfig()
	observability.InitializeLogger(cfg.Logger())
	defer observability.Sync()
	logger := observability.GetLogger().Named("view")

	a := app.New()
	w := a.NewWindow("tether")
	w.Resize(fyne.NewSize(1024, 768))

	v := &viewer{cfg: cfg.Render(), log: logger}
	defer v.close()

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, v.cfg.Width, v.cfg.Height)))
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("Enter a scene file and press Enter")

	names := make([]string, 0, 12)
	for _, p := range placement.All() {
		names = append(names, p.String())
	}
	placementSelect := widget.NewSelect(names, nil)
	placementSelect.SetSelected(cfg.Position().Placement)
	strategySelect := widget.NewSelect([]string{string(floating.Absolute), string(floating.Fixed)}, nil)
	strategySelect.SetSelected(cfg.Position().Strategy)

	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("scene.toml")
	if len(os.Args) > 1 {
		pathEntry.SetText(os.Args[1])
	}

	scroll := widget.NewSlider(0, 0)
	scroll.Orientation = widget.Vertical

	paint := func() {
		img, msg, err := v.paint()
		if err != nil {
			logger.Warn("Render failed.", zap.String("scene", v.path), zap.Error(err))
			status.SetText("Error: " + err.Error())
			return
		}
		canvasImg.Image = img
		canvasImg.Refresh()
		status.SetText(msg)
	}
	show := func() {
		path := pathEntry.Text
		if path == "" {
			return
		}
		if err := v.load(path, placementSelect.Selected, strategySelect.Selected); err != nil {
			logger.Warn("Load failed.", zap.String("scene", path), zap.Error(err))
			status.SetText("Error: " + err.Error())
			return
		}
		w.SetTitle("tether - " + path)
		scroll.Max = v.maxScroll()
		// The slider runs top to bottom.
		scroll.SetValue(scroll.Max - v.st.Window.PageYOffset())
		paint()
	}
	scroll.OnChanged = func(value float64) {
		if v.st == nil {
			return
		}
		v.st.Window.ScrollTo(v.st.Window.PageXOffset(), scroll.Max-value)
		paint()
	}
	pathEntry.OnSubmitted = func(string) { show() }
	placementSelect.OnChanged = func(string) { show() }
	strategySelect.OnChanged = func(string) { show() }

	topBar := container.NewBorder(nil, nil, nil, container.NewHBox(placementSelect, strategySelect), pathEntry)
	content := container.NewBorder(topBar, status, nil, scroll, canvasImg)
	w.SetContent(content)
	w.Canvas().Focus(pathEntry)
	show()

	w.ShowAndRun()
}

// viewer owns the scene on screen: its stage, the script engine and the
// autoUpdate subscription repositioning the floating element.
type viewer struct {
	cfg config.RenderConfig
	log *zap.Logger

	path    string
	st      *scene.Stage
	engine  *js.Engine
	cleanup func()
	pos     *floating.Position
	updates int
}

func (v *viewer) load(path, chosen, strategy string) error {
	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	if s.Position != nil {
		if chosen != "" {
			s.Position.Placement = chosen
		}
		if strategy != "" {
			s.Position.Strategy = strategy
		}
	}
	st, err := s.Build()
	if err != nil {
		return err
	}
	engine, err := js.RunScene(st, js.WithLogger(v.log.Named("script")))
	if err != nil {
		return err
	}

	v.close()
	v.path, v.st, v.engine, v.pos, v.updates = path, st, engine, nil, 0
	req, err := st.Request()
	if err != nil {
		// Nothing to position; show the document as is.
		return nil
	}
	v.cleanup = floating.AutoUpdate(req.Reference, req.Floating, v.reposition,
		floating.WithLogger(v.log.Named("autoupdate")))
	return nil
}

// reposition is the autoUpdate callback.
func (v *viewer) reposition() {
	pos, err := v.st.Compute()
	if err != nil {
		v.log.Warn("Compute failed.", zap.Error(err))
		return
	}
	if err := v.st.Apply(pos); err != nil {
		v.log.Warn("Apply failed.", zap.Error(err))
		return
	}
	v.pos = &pos
	v.updates++
}

// maxScroll is how far the document extends below the viewport.
func (v *viewer) maxScroll() float64 {
	bottom := 0.0
	for _, id := range v.st.IDs() {
		if el, err := v.st.Element(id); err == nil {
			bottom = math.Max(bottom, el.LayoutRect().Bottom())
		}
	}
	return math.Max(0, bottom-v.st.Window.InnerHeight())
}

func (v *viewer) paint() (image.Image, string, error) {
	r := render.NewRenderer(v.cfg.Width, v.cfg.Height, render.WithColors(v.cfg.Background, v.cfg.Reference, v.cfg.Floating))
	var overlay *floating.Position
	if v.cfg.Overlay {
		overlay = v.pos
	}
	if err := r.Render(v.st, overlay); err != nil {
		return nil, "", err
	}
	if v.pos == nil {
		return r.Image(), fmt.Sprintf("%s (no position request)", v.path), nil
	}
	return r.Image(), fmt.Sprintf("%s: %s at (%g, %g), scroll %g, %d updates",
		v.path, v.pos.Placement, v.pos.X, v.pos.Y, v.st.Window.PageYOffset(), v.updates), nil
}

func (v *viewer) close() {
	if v.cleanup != nil {
		v.cleanup()
		v.cleanup = nil
	}
	if v.engine != nil {
		v.engine.Close()
		v.engine = nil
	}
}
