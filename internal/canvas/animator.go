package canvas

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

// Packet colors. The simulation is a demonstration affordance: red packets
// mean "unsanitized traffic under attack", not the result of any real
// traffic analysis.
const (
	PacketGreen = "green"
	PacketRed   = "red"
)

// PacketState is the renderable position of one traveling packet.
type PacketState struct {
	EdgeID   string           `json:"edge_id"`
	T        float64          `json:"t"` // Curve parameter in [0, 1).
	Color    string           `json:"color"`
	Position schemas.Position `json:"position"`
}

// Animator drives the cosmetic "live traffic" packets: a fixed-interval tick
// advances each edge's packet parameter, looping continuously. It is purely
// a rendering side effect and never mutates the graph.
type Animator struct {
	editor *Editor
	cfg    config.EditorConfig
	log    *zap.Logger

	mu       sync.Mutex
	progress map[string]float64
	simUntil time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAnimator creates an animator bound to an editor.
func NewAnimator(editor *Editor, cfg config.EditorConfig, logger *zap.Logger) *Animator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Animator{
		editor:   editor,
		cfg:      cfg,
		log:      logger.Named("animator"),
		progress: make(map[string]float64),
	}
}

// Start launches the tick loop on its own goroutine. Calling Start twice
// without Stop is a no-op.
func (a *Animator) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done != nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	go a.run(ctx, a.done)
}

// Stop cancels the tick loop and waits for it to exit.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (a *Animator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.cfg.AnimationTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick advances every live edge's packet and drops progress entries for
// edges that no longer exist.
func (a *Animator) tick() {
	edges := a.editor.Edges()

	a.mu.Lock()
	defer a.mu.Unlock()

	live := make(map[string]bool, len(edges))
	for _, e := range edges {
		live[e.ID] = true
		t := a.progress[e.ID] + a.cfg.PacketSpeed
		for t >= 1 {
			t -= 1
		}
		a.progress[e.ID] = t
	}
	for id := range a.progress {
		if !live[id] {
			delete(a.progress, id)
		}
	}
}

// TriggerAttackSimulation turns on attack-simulation mode for the configured
// duration. Re-triggering extends the window.
func (a *Animator) TriggerAttackSimulation() {
	a.mu.Lock()
	a.simUntil = time.Now().Add(a.cfg.AttackSimDuration)
	a.mu.Unlock()
	a.log.Info("Attack simulation triggered",
		zap.Duration("duration", a.cfg.AttackSimDuration))
}

// Simulating reports whether attack-simulation mode is currently active.
func (a *Animator) Simulating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return time.Now().Before(a.simUntil)
}

// Packets returns the renderable packet states for every live edge, each
// positioned on its edge's Bézier curve. During an attack simulation packets
// run red unless a sanitizer node exists anywhere in the graph, in which
// case they stay green.
func (a *Animator) Packets() []PacketState {
	color := PacketGreen
	if a.Simulating() && !a.editor.HasSecurityType(schemas.TypeSanitizer) {
		color = PacketRed
	}

	edges := a.editor.Edges()
	positions := make(map[string]schemas.Position)
	for _, n := range a.editor.Nodes() {
		positions[n.ID] = n.Position
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	packets := make([]PacketState, 0, len(edges))
	for _, e := range edges {
		t := a.progress[e.ID]
		curve := EdgeCurve(positions[e.From], positions[e.To])
		packets = append(packets, PacketState{
			EdgeID:   e.ID,
			T:        t,
			Color:    color,
			Position: curve.PointAt(t),
		})
	}
	return packets
}
