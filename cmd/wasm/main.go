//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

var eng *placement.Engine

func main() {
	eng = placement.NewEngine(placement.WithPreviewFactory(objectURLPreview))

	api := js.Global().Get("Object").New()

	// --- Commands (page → engine) ---
	api.Set("setContainerSize", js.FuncOf(setContainerSize))
	api.Set("setActiveSide", js.FuncOf(setActiveSide))
	api.Set("addArtwork", js.FuncOf(addArtwork))
	api.Set("bindArtwork", js.FuncOf(bindArtwork))
	api.Set("removeArtwork", js.FuncOf(removeArtwork))
	api.Set("beginDrag", js.FuncOf(beginDrag))
	api.Set("beginResize", js.FuncOf(beginResize))
	api.Set("beginRotate", js.FuncOf(beginRotate))
	api.Set("beginPlaceholder", js.FuncOf(beginPlaceholder))
	api.Set("movePointer", js.FuncOf(movePointer))
	api.Set("endPointer", js.FuncOf(endPointer))
	api.Set("center", js.FuncOf(center))
	api.Set("reset", js.FuncOf(reset))
	api.Set("flip", js.FuncOf(flip))
	api.Set("setWidthFraction", js.FuncOf(setWidthFraction))
	api.Set("setRotation", js.FuncOf(setRotation))
	api.Set("onOpenPicker", js.FuncOf(onOpenPicker))
	api.Set("restoreConfig", js.FuncOf(restoreConfig))
	api.Set("teardown", js.FuncOf(teardown))

	// --- Queries (engine → page) ---
	api.Set("getState", js.FuncOf(getState))
	api.Set("gesturing", js.FuncOf(gesturing))
	api.Set("getConfig", js.FuncOf(getConfig))
	api.Set("getDefaultPlacement", js.FuncOf(getDefaultPlacement))
	api.Set("overlayTransform", js.FuncOf(overlayTransform))

	js.Global().Set("placementEngine", api)
	js.Global().Set("placementWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// objectURLPreview derives a revocable object URL from the uploaded bytes.
// The engine's library owns the handle and revokes it exactly once.
func objectURLPreview(f placement.File) placement.Preview {
	data := f.Bytes()
	buf := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(buf, data)
	blob := js.Global().Get("Blob").New(
		js.Global().Get("Array").New(buf),
		js.ValueOf(map[string]interface{}{"type": f.ContentType()}),
	)
	url := js.Global().Get("URL").Call("createObjectURL", blob).String()
	return &jsPreview{url: url}
}

type jsPreview struct {
	url string
}

func (p *jsPreview) URL() string { return p.url }

func (p *jsPreview) Release() {
	js.Global().Get("URL").Call("revokeObjectURL", p.url)
}

func pointerArg(args []js.Value) (placement.Point, bool) {
	if len(args) < 2 {
		return placement.Point{}, false
	}
	return placement.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

// --- Command Handlers ---

func setContainerSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetContainerSize(args[0].Float(), args[1].Float())
	return nil
}

func setActiveSide(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetActiveSide(placement.ParseSide(args[0].String()))
	return nil
}

// addArtwork expects (name, contentType, bytes Uint8Array) and returns
// {id, previewUrl} or {error}.
func addArtwork(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "missing arguments"})
	}

	buf := args[2]
	data := make([]byte, buf.Length())
	js.CopyBytesToGo(data, buf)

	art, err := eng.AddArtwork(placement.MemoryFile{
		FileName: args[0].String(),
		Type:     args[1].String(),
		Data:     data,
	})
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{
		"id":         art.ID,
		"previewUrl": art.PreviewURL,
	})
}

func bindArtwork(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing arguments"})
	}
	side := placement.ParseSide(args[0].String())
	if err := eng.BindArtwork(side, args[1].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func removeArtwork(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing arguments"})
	}
	if err := eng.RemoveArtwork(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func beginDrag(this js.Value, args []js.Value) interface{} {
	if p, ok := pointerArg(args); ok {
		eng.BeginDrag(p)
	}
	return nil
}

func beginResize(this js.Value, args []js.Value) interface{} {
	if p, ok := pointerArg(args); ok {
		eng.BeginResize(p)
	}
	return nil
}

func beginRotate(this js.Value, args []js.Value) interface{} {
	if p, ok := pointerArg(args); ok {
		eng.BeginRotate(p)
	}
	return nil
}

func beginPlaceholder(this js.Value, args []js.Value) interface{} {
	if p, ok := pointerArg(args); ok {
		eng.BeginPlaceholder(p)
	}
	return nil
}

func movePointer(this js.Value, args []js.Value) interface{} {
	if p, ok := pointerArg(args); ok {
		eng.UpdateGesture(p)
	}
	return nil
}

func endPointer(this js.Value, args []js.Value) interface{} {
	eng.EndGesture()
	return nil
}

func center(this js.Value, args []js.Value) interface{} {
	eng.Center()
	return nil
}

func reset(this js.Value, args []js.Value) interface{} {
	eng.ResetPlacement()
	return nil
}

func flip(this js.Value, args []js.Value) interface{} {
	eng.Flip()
	return nil
}

func setWidthFraction(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetWidthFraction(args[0].Float())
	return nil
}

func setRotation(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetRotationDegrees(args[0].Float())
	return nil
}

func onOpenPicker(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.SetOpenPickerFunc(nil)
		return nil
	}
	cb := args[0]
	eng.SetOpenPickerFunc(func() {
		cb.Invoke()
	})
	return nil
}

func restoreConfig(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing config JSON"})
	}
	cfg, err := placement.ParseConfig([]byte(args[0].String()))
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	if err := eng.RestoreConfig(cfg); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func teardown(this js.Value, args []js.Value) interface{} {
	eng.Close()
	return nil
}

// --- Query Handlers ---

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.StateJSON())
}

func gesturing(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Gesturing())
}

func getConfig(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ConfigJSON())
}

func getDefaultPlacement(this js.Value, args []js.Value) interface{} {
	side := placement.SideFront
	if len(args) > 0 {
		side = placement.ParseSide(args[0].String())
	}
	p := eng.DefaultPlacement(side)
	return js.ValueOf(map[string]interface{}{
		"x":               p.X,
		"y":               p.Y,
		"widthFraction":   p.WidthFraction,
		"rotationDegrees": p.RotationDegrees,
		"flipped":         p.Flipped,
	})
}

// overlayTransform expects (side, naturalWidth, naturalHeight) and returns
// the affine matrix [a, b, c, d, e, f] or null.
func overlayTransform(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.Null()
	}
	side := placement.ParseSide(args[0].String())
	m, ok := eng.OverlayTransformFor(side, args[1].Float(), args[2].Float())
	if !ok {
		return js.Null()
	}
	out := make([]interface{}, 6)
	for i, v := range m.ToSlice() {
		out[i] = v
	}
	return js.ValueOf(out)
}
