package placement

import (
	"errors"
	"fmt"
)

// DefaultMaxArtworks is the library capacity: how many uploads a shopper can
// hold in one customization session.
const DefaultMaxArtworks = 4

// MaxArtworkBytes is the largest file the engine accepts for an artwork.
const MaxArtworkBytes = 10 << 20 // 10MB

var (
	// ErrLibraryFull is returned when adding an artwork beyond capacity.
	ErrLibraryFull = errors.New("design library is full")
	// ErrUnsupportedType is returned for file types the engine cannot place.
	ErrUnsupportedType = errors.New("unsupported artwork file type")
	// ErrFileTooLarge is returned when an artwork file exceeds MaxArtworkBytes.
	ErrFileTooLarge = errors.New("artwork file too large")
	// ErrArtworkNotFound is returned when a referenced artwork is not in the
	// library.
	ErrArtworkNotFound = errors.New("artwork not found")
)

// File is an uploaded artwork file as the engine sees it: the engine only
// inspects type and size; the bytes are opaque until the aspect-ratio decode.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Bytes() []byte
}

// MemoryFile is an in-memory File, used by the wasm bridge and by tests.
type MemoryFile struct {
	FileName string
	Type     string
	Data     []byte
}

func (f MemoryFile) Name() string        { return f.FileName }
func (f MemoryFile) ContentType() string { return f.Type }
func (f MemoryFile) Size() int64         { return int64(len(f.Data)) }
func (f MemoryFile) Bytes() []byte       { return f.Data }

// Preview is a locally-derived, revocable display handle for an artwork
// (an object URL in the browser host). The library owns every handle it
// creates and releases each exactly once: on artwork removal or on engine
// teardown, never both.
type Preview interface {
	URL() string
	Release()
}

// PreviewFactory derives a Preview from an uploaded file. Hosts that render
// previews (the wasm bridge) supply one; headless hosts use the default
// no-op preview.
type PreviewFactory func(File) Preview

type noopPreview struct{}

func (noopPreview) URL() string { return "" }
func (noopPreview) Release()    {}

// Artwork is one uploaded image tracked in the library, independent of
// where (or whether) it is currently placed.
type Artwork struct {
	ID   string
	Name string

	preview  Preview
	released bool

	// width/height of the decoded image; 0 until the decode resolves
	aspectRatio float64
}

// AspectRatio returns the decoded width/height ratio, or the fallback of 1
// while the decode is pending or has failed.
func (a *Artwork) AspectRatio() float64 {
	if a.aspectRatio <= 0 {
		return FallbackAspectRatio
	}
	return a.aspectRatio
}

// PreviewURL returns the display handle for on-screen rendering.
func (a *Artwork) PreviewURL() string {
	if a.preview == nil {
		return ""
	}
	return a.preview.URL()
}

// releasePreview revokes the artwork's display handle. Releasing twice is a
// programmer error, not a recoverable condition, so it panics.
func (a *Artwork) releasePreview() {
	if a.released {
		panic(fmt.Sprintf("placement: preview for artwork %s released twice", a.ID))
	}
	a.released = true
	if a.preview != nil {
		a.preview.Release()
	}
}

// acceptedTypes are the content types the engine will place. The host
// surfaces the user-facing message ("Only PNG or SVG files are accepted");
// the engine only decides.
var acceptedTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// validateFile checks type and size before any state change.
func validateFile(f File) error {
	if !acceptedTypes[f.ContentType()] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, f.ContentType())
	}
	if f.Size() > MaxArtworkBytes {
		return ErrFileTooLarge
	}
	return nil
}

// library is the bookkeeping of uploaded artworks. Binding state lives on
// the engine; the library owns the artworks and their preview handles.
type library struct {
	artworks []*Artwork // insertion order preserved
	byID     map[string]*Artwork
	max      int
	previews PreviewFactory
	newID    func() string
}

func newLibrary(max int, previews PreviewFactory, newID func() string) *library {
	if previews == nil {
		previews = func(File) Preview { return noopPreview{} }
	}
	return &library{
		byID:     make(map[string]*Artwork),
		max:      max,
		previews: previews,
		newID:    newID,
	}
}

// add validates and stores a new artwork. On rejection the library is
// untouched, including ordering.
func (l *library) add(f File) (*Artwork, error) {
	if len(l.artworks) >= l.max {
		return nil, ErrLibraryFull
	}
	if err := validateFile(f); err != nil {
		return nil, err
	}

	a := &Artwork{
		ID:      l.newID(),
		Name:    f.Name(),
		preview: l.previews(f),
	}
	l.artworks = append(l.artworks, a)
	l.byID[a.ID] = a
	return a, nil
}

// addReference stores an artwork known only by a durable reference, used
// when restoring a persisted design configuration server-side. It carries no
// file or preview; the aspect ratio stays at the fallback unless set.
func (l *library) addReference(id, name string) (*Artwork, error) {
	if len(l.artworks) >= l.max {
		return nil, ErrLibraryFull
	}
	if existing, ok := l.byID[id]; ok {
		return existing, nil
	}
	a := &Artwork{ID: id, Name: name, preview: noopPreview{}}
	l.artworks = append(l.artworks, a)
	l.byID[a.ID] = a
	return a, nil
}

func (l *library) get(id string) (*Artwork, bool) {
	a, ok := l.byID[id]
	return a, ok
}

// remove releases the artwork's preview and drops it from the library.
func (l *library) remove(id string) (*Artwork, error) {
	a, ok := l.byID[id]
	if !ok {
		return nil, ErrArtworkNotFound
	}
	a.releasePreview()
	delete(l.byID, id)
	for i, other := range l.artworks {
		if other.ID == id {
			l.artworks = append(l.artworks[:i], l.artworks[i+1:]...)
			break
		}
	}
	return a, nil
}

// close releases every remaining preview exactly once.
func (l *library) close() {
	for _, a := range l.artworks {
		a.releasePreview()
	}
	l.artworks = nil
	l.byID = map[string]*Artwork{}
}

func (l *library) setAspect(id string, ratio float64) {
	if a, ok := l.byID[id]; ok && ratio > 0 {
		a.aspectRatio = ratio
	}
}
