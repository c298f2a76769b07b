// Package placement implements the interactive design-placement engine for
// garment customization: fractional-coordinate geometry, per-side print
// areas, the pointer gesture state machine, and the uploaded-artwork library
// with its per-side bindings.
package placement

import (
	"encoding/json"
	"sync"

	"github.com/inkthread/inkthread/backend-go/internal/imagemeta"
	"github.com/inkthread/inkthread/backend-go/internal/typeid"
)

// Engine owns all placement state for one customization session. Hosts talk
// to it through commands and queries; nothing else mutates its artworks,
// placements, or bindings. One mutex guards the whole engine so it serves
// both the single-threaded wasm host and the websocket host, where the
// aspect-ratio decode goroutine and room goroutine interleave.
type Engine struct {
	mu sync.Mutex

	registry *Registry
	library  *library
	ctrl     controller

	container  Size
	activeSide Side

	// per-side placement and artwork binding; a placement may exist before
	// an artwork is bound (placeholder drag) and is what the first bind
	// adopts
	placements map[Side]*Placement
	bound      map[Side]string

	onOpenPicker func()

	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry supplies product-specific print areas instead of the
// built-in garment defaults.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithPreviewFactory supplies the host's preview-handle derivation (object
// URLs in the browser).
func WithPreviewFactory(f PreviewFactory) Option {
	return func(e *Engine) { e.library.previews = f }
}

// WithMaxArtworks overrides the library capacity.
func WithMaxArtworks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.library.max = n
		}
	}
}

// NewEngine creates an engine with empty state for the front side.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry:   NewRegistry(),
		placements: make(map[Side]*Placement),
		bound:      make(map[Side]string),
		activeSide: SideFront,
	}
	e.library = newLibrary(DefaultMaxArtworks, nil, typeid.NewArtworkID)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands (host → engine) ---

// SetContainerSize records the live pixel size of the placement container.
// The host calls it on every layout change.
func (e *Engine) SetContainerSize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.container = Size{Width: width, Height: height}
}

// SetActiveSide switches which garment side gestures and shortcuts apply to.
// An in-flight gesture ends first.
func (e *Engine) SetActiveSide(side Side) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeSide != side {
		e.ctrl.end(nil)
		e.activeSide = side
	}
}

// SetOpenPickerFunc registers the callback a placeholder click invokes.
func (e *Engine) SetOpenPickerFunc(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onOpenPicker = fn
}

// AddArtwork validates and stores an uploaded file. On rejection
// (ErrLibraryFull, ErrUnsupportedType, ErrFileTooLarge) no state changes.
// The artwork is bindable immediately; its aspect ratio is decoded in the
// background and adopted silently once known, with a fallback of 1 until
// then.
func (e *Engine) AddArtwork(f File) (ArtworkInfo, error) {
	e.mu.Lock()
	a, err := e.library.add(f)
	if err != nil {
		e.mu.Unlock()
		return ArtworkInfo{}, err
	}
	info := e.artworkInfo(a)
	e.mu.Unlock()

	go e.decodeAspect(a.ID, f)

	return info, nil
}

// AddArtworkReference registers an artwork by durable reference instead of
// file contents. The server-side host uses it when a shopper attaches an
// asset that already went through the upload pipeline, which reports the
// aspect ratio up front.
func (e *Engine) AddArtworkReference(id, name string, aspectRatio float64) (ArtworkInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.library.addReference(id, name)
	if err != nil {
		return ArtworkInfo{}, err
	}
	if aspectRatio > 0 {
		e.library.setAspect(a.ID, aspectRatio)
	}
	return e.artworkInfo(a), nil
}

// decodeAspect is the only deferred operation in the engine. It never gates
// interactivity: failures leave the fallback ratio in place.
func (e *Engine) decodeAspect(id string, f File) {
	ratio, err := imagemeta.AspectRatio(f.Bytes(), f.ContentType())
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.library.setAspect(id, ratio)
}

// BindArtwork assigns an artwork to a garment side. If the side already has
// a placement it carries over unchanged, so swapping artwork never loses
// layout work; otherwise the side gets its default placement. Both sides may
// bind the same artwork.
func (e *Engine) BindArtwork(side Side, artworkID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.library.get(artworkID); !ok {
		return ErrArtworkNotFound
	}
	if e.placements[side] == nil {
		p := e.registry.DefaultPlacement(side)
		e.placements[side] = &p
	}
	e.bound[side] = artworkID
	return nil
}

// RemoveArtwork releases the artwork's preview handle, drops it from the
// library, and clears any side bindings that point at it.
func (e *Engine) RemoveArtwork(artworkID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.library.remove(artworkID); err != nil {
		return err
	}
	for _, side := range Sides {
		if e.bound[side] == artworkID {
			delete(e.bound, side)
			delete(e.placements, side)
		}
	}
	return nil
}

// BeginDrag starts a body drag on the active side's artwork. No-op when the
// side has no placement.
func (e *Engine) BeginDrag(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		e.ctrl.beginDrag(p, pointer)
	}
}

// BeginResize starts a corner-handle resize on the active side's artwork.
func (e *Engine) BeginResize(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		e.ctrl.beginResize(p, pointer, e.container)
	}
}

// BeginRotate starts a rotate-handle gesture on the active side's artwork.
func (e *Engine) BeginRotate(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		e.ctrl.beginRotate(p, pointer)
	}
}

// BeginPlaceholder starts a pointer sequence on the add-design placeholder.
// A placement is created lazily so dragging the placeholder before the first
// upload already positions the eventual artwork.
func (e *Engine) BeginPlaceholder(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.beginPlaceholder(e.ensurePlacement(e.activeSide), pointer)
}

// UpdateGesture applies one pointer-move to the active gesture using the
// current container size.
func (e *Engine) UpdateGesture(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		e.ctrl.update(p, pointer, e.container)
	}
}

// EndGesture ends the active gesture (pointer-up). A placeholder click
// invokes the open-picker callback; the callback runs outside the engine
// lock and its panics propagate to the host after the gesture has ended.
func (e *Engine) EndGesture() {
	e.mu.Lock()
	var tapped func()
	e.ctrl.end(func() { tapped = e.onOpenPicker })
	e.mu.Unlock()
	if tapped != nil {
		tapped()
	}
}

// Center moves the active side's artwork to its print area's center,
// leaving size, rotation, and mirror untouched.
func (e *Engine) Center() {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.placements[e.activeSide]
	if p == nil {
		return
	}
	area := e.registry.Area(e.activeSide)
	p.X = area.CenterX
	p.Y = area.CenterY
}

// ResetPlacement replaces the active side's placement with its default.
func (e *Engine) ResetPlacement() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.placements[e.activeSide] == nil {
		return
	}
	p := e.registry.DefaultPlacement(e.activeSide)
	e.placements[e.activeSide] = &p
}

// Flip toggles the horizontal mirror flag on the active side.
func (e *Engine) Flip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		p.Flipped = !p.Flipped
	}
}

// SetWidthFraction is the direct numeric size override used by the scale
// slider, bypassing gesture math. The resize bounds still apply.
func (e *Engine) SetWidthFraction(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		p.WidthFraction = clampWidth(v)
	}
}

// SetRotationDegrees is the direct numeric rotation override used by the
// rotation slider.
func (e *Engine) SetRotationDegrees(deg float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[e.activeSide]; p != nil {
		p.RotationDegrees = NormalizeDegrees(deg)
	}
}

// RestoreConfig loads a persisted design configuration into the engine,
// registering reference artworks for the durable refs it names. Used by the
// server-side host to resume a session.
func (e *Engine) RestoreConfig(cfg DesignConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, side := range Sides {
		rec := cfg.Record(side)
		if rec == nil {
			continue
		}
		if _, err := e.library.addReference(rec.ArtworkRef, rec.ArtworkRef); err != nil {
			return err
		}
		p := sanitize(rec.Placement)
		e.placements[side] = &p
		e.bound[side] = rec.ArtworkRef
	}
	return nil
}

// Close tears the engine down, releasing every remaining preview handle
// exactly once. The engine must not be used afterward.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.ctrl.end(nil)
	e.library.close()
	e.placements = map[Side]*Placement{}
	e.bound = map[Side]string{}
}

// --- Queries (engine → host) ---

// ArtworkInfo is a read-only snapshot of a library artwork.
type ArtworkInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PreviewURL  string  `json:"previewUrl,omitempty"`
	AspectRatio float64 `json:"aspectRatio"`
}

// SideState is a read-only snapshot of one garment side.
type SideState struct {
	ArtworkID      string     `json:"artworkId,omitempty"`
	Placement      *Placement `json:"placement,omitempty"`
	HeightFraction float64    `json:"heightFraction,omitempty"`
	PrintArea      PrintArea  `json:"printArea"`
}

// State is the full engine snapshot hosts render from.
type State struct {
	ActiveSide Side                 `json:"activeSide"`
	Container  Size                 `json:"container"`
	Artworks   []ArtworkInfo        `json:"artworks"`
	Sides      map[string]SideState `json:"sides"`
}

// ActiveSide returns the side gestures currently apply to.
func (e *Engine) ActiveSide() Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeSide
}

// Gesturing reports whether a pointer gesture is in flight, letting hosts
// suppress hover affordances mid-gesture.
func (e *Engine) Gesturing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.gesturing()
}

// ContainerSize returns the last container size the host supplied.
func (e *Engine) ContainerSize() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container
}

// PlacementFor returns a side's placement, reporting whether one exists.
func (e *Engine) PlacementFor(side Side) (Placement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.placements[side]; p != nil {
		return *p, true
	}
	return Placement{}, false
}

// BoundArtwork returns the artwork bound to a side, if any.
func (e *Engine) BoundArtwork(side Side) (ArtworkInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.bound[side]
	if !ok {
		return ArtworkInfo{}, false
	}
	a, ok := e.library.get(id)
	if !ok {
		return ArtworkInfo{}, false
	}
	return e.artworkInfo(a), true
}

// Artworks lists the library contents in upload order.
func (e *Engine) Artworks() []ArtworkInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	infos := make([]ArtworkInfo, len(e.library.artworks))
	for i, a := range e.library.artworks {
		infos[i] = e.artworkInfo(a)
	}
	return infos
}

// DefaultPlacement exposes the registry's default for a side.
func (e *Engine) DefaultPlacement(side Side) Placement {
	return e.registry.DefaultPlacement(side)
}

// PrintArea exposes the registry's area for a side.
func (e *Engine) PrintArea(side Side) PrintArea {
	return e.registry.Area(side)
}

// Config derives the serializable design configuration: per side, the
// placement plus artwork reference, only for sides with a bound artwork.
func (e *Engine) Config() DesignConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := EmptyConfig()
	for _, side := range Sides {
		id, ok := e.bound[side]
		if !ok {
			continue
		}
		p := e.placements[side]
		if p == nil {
			continue
		}
		cfg.setRecord(side, &PlacementRecord{Placement: *p, ArtworkRef: id})
	}
	return cfg
}

// ConfigJSON returns the design configuration as JSON for the wasm bridge.
func (e *Engine) ConfigJSON() string {
	data, _ := json.Marshal(e.Config())
	return string(data)
}

// State returns the full snapshot hosts render from.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		ActiveSide: e.activeSide,
		Container:  e.container,
		Artworks:   make([]ArtworkInfo, len(e.library.artworks)),
		Sides:      make(map[string]SideState, len(Sides)),
	}
	for i, a := range e.library.artworks {
		st.Artworks[i] = e.artworkInfo(a)
	}
	for _, side := range Sides {
		ss := SideState{PrintArea: e.registry.Area(side)}
		if p := e.placements[side]; p != nil {
			cp := *p
			ss.Placement = &cp
			if id, ok := e.bound[side]; ok {
				ss.ArtworkID = id
				if a, ok := e.library.get(id); ok {
					ss.HeightFraction = p.HeightFraction(a.AspectRatio(), e.container)
				}
			}
		}
		st.Sides[side.String()] = ss
	}
	return st
}

// StateJSON returns the snapshot as JSON for the wasm bridge and the live
// preview protocol.
func (e *Engine) StateJSON() string {
	data, _ := json.Marshal(e.State())
	return string(data)
}

// OverlayTransformFor composes the overlay transform for a side's artwork
// given its natural pixel dimensions. Reports false when the side has no
// placement.
func (e *Engine) OverlayTransformFor(side Side, naturalW, naturalH float64) (Matrix2D, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.placements[side]
	if p == nil {
		return Identity(), false
	}
	return OverlayTransform(*p, e.container, naturalW, naturalH), true
}

// ensurePlacement returns the side's placement, creating the default lazily.
// Callers hold the engine lock.
func (e *Engine) ensurePlacement(side Side) *Placement {
	if p := e.placements[side]; p != nil {
		return p
	}
	p := e.registry.DefaultPlacement(side)
	e.placements[side] = &p
	return &p
}

func (e *Engine) artworkInfo(a *Artwork) ArtworkInfo {
	return ArtworkInfo{
		ID:          a.ID,
		Name:        a.Name,
		PreviewURL:  a.PreviewURL(),
		AspectRatio: a.AspectRatio(),
	}
}
