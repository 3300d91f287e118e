package texture

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/assets"
	"github.com/Faultbox/webgame/internal/engine/gpu"
	"github.com/Faultbox/webgame/internal/loader"
	"github.com/Faultbox/webgame/internal/logger"
)

// State is the progress of a Pending texture.
type State int

const (
	StateQueued State = iota
	StateFetching
	StateFetched
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateFetching:
		return "fetching"
	case StateFetched:
		return "fetched"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pending is a texture being loaded. It takes two steps: the fetch runs in
// the background and requeues the item, then decode and upload happen on
// the render goroutine during a later Update.
type Pending struct {
	owner    *Loader
	url      string
	priority int
	state    State
	data     []byte
	tex      *Texture
	err      error
	onReady  []func(*Texture)
}

// URL returns the texture's address.
func (p *Pending) URL() string { return p.url }

// State returns the current load state.
func (p *Pending) State() State { return p.state }

// Err returns the failure reason for StateFailed.
func (p *Pending) Err() error { return p.err }

// Texture returns the uploaded texture, or nil until StateReady.
func (p *Pending) Texture() *Texture { return p.tex }

// Priority returns the load priority; lower loads first.
func (p *Pending) Priority() int { return p.priority }

// SetPriority changes the load priority of a texture that is still queued.
func (p *Pending) SetPriority(priority int) { p.priority = priority }

// OnReady runs fn once the texture is uploaded, immediately if it already is.
func (p *Pending) OnReady(fn func(*Texture)) {
	if p.state == StateReady {
		fn(p.tex)
		return
	}
	p.onReady = append(p.onReady, fn)
}

// LoadNext implements loader.Item.
func (p *Pending) LoadNext(done func(requeue bool)) {
	if p.state == StateFetched {
		p.upload()
		done(false)
		return
	}

	p.state = StateFetching
	p.owner.assets.Fetch(p.owner.fetchCtx, p.url, p.owner.dispatch, func(data []byte, err error) {
		if err != nil {
			p.fail(err)
			done(false)
			return
		}
		p.data = data
		p.state = StateFetched
		done(true)
	})
}

func (p *Pending) upload() {
	img, err := Decode(p.url, p.data)
	p.data = nil
	if err != nil {
		p.fail(fmt.Errorf("decoding: %w", err))
		return
	}

	b := img.Bounds()
	p.tex = FromPixels(p.owner.gl, int32(b.Dx()), int32(b.Dy()), img.Pix)
	p.state = StateReady

	for _, fn := range p.onReady {
		fn(p.tex)
	}
	p.onReady = nil
}

func (p *Pending) fail(err error) {
	p.state = StateFailed
	p.err = err
	p.onReady = nil
	p.owner.log.Warn("texture load failed", zap.String("url", p.url), zap.Error(err))
}

// Loader streams textures from an asset manager onto the GPU.
type Loader struct {
	*loader.Loader[*Pending]

	gl       gpu.Context
	assets   *assets.Manager
	dispatch *assets.Dispatcher
	fetchCtx context.Context
	log      *zap.Logger
}

// NewLoader creates a texture loader. Fetch results are delivered through
// dispatch, which the caller polls on the render goroutine.
func NewLoader(ctx context.Context, gl gpu.Context, manager *assets.Manager, dispatch *assets.Dispatcher) *Loader {
	l := &Loader{
		gl:       gl,
		assets:   manager,
		dispatch: dispatch,
		fetchCtx: ctx,
		log:      logger.Named("textures"),
	}
	l.Loader = loader.New(l.create,
		loader.WithPriority(func(a, b *Pending) int { return a.priority - b.priority }),
		loader.WithStepFinished(l.stepFinished),
	)
	return l
}

func (l *Loader) create(url string) *Pending {
	return &Pending{owner: l, url: url}
}

func (l *Loader) stepFinished(p *Pending) {
	l.log.Debug("texture step finished",
		zap.String("url", p.url),
		zap.Stringer("state", p.state),
		zap.Int("queued", l.QueueCount()),
		zap.Int("active", l.ActiveCount()),
		zap.Int("completed", l.CompletedCount()),
	)
}

// Dispose releases every uploaded texture.
func (l *Loader) Dispose() {
	l.Each(func(_ string, p *Pending) {
		if p.tex != nil {
			p.tex.Dispose()
		}
	})
}
