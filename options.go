package twistycube

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Default configuration values.
const (
	DefaultSize          = 3
	DefaultSpacing       = 2.05
	DefaultPieceSize     = 2.0
	DefaultStickerLift   = 0.01
	DefaultEpsilon       = 0.01
	DefaultDragThreshold = 1.0
	DefaultTurnStep      = math.Pi / 32
	DefaultFrame         = time.Second / 60
)

// Option configures a Controller.
type Option func(*config)

type config struct {
	geom          Geometry
	scheme        Scheme
	turnStep      float64
	dragThreshold float64
	renderer      Renderer
	logger        logrus.FieldLogger
	seed          int64
	seeded        bool
}

// NewGeometry returns the default geometry for an n×n×n puzzle.
func NewGeometry(n int) Geometry {
	return Geometry{
		Size:        n,
		Spacing:     DefaultSpacing,
		PieceSize:   DefaultPieceSize,
		StickerLift: DefaultStickerLift,
		Epsilon:     DefaultEpsilon,
	}
}

func (c *config) validate() error {
	if err := c.geom.Validate(); err != nil {
		return err
	}
	// A zero step never completes a move.
	if !(c.turnStep > 0) || math.IsInf(c.turnStep, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTurnStep, c.turnStep)
	}
	if !(c.dragThreshold > 0) || math.IsInf(c.dragThreshold, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDrag, c.dragThreshold)
	}
	return nil
}

func defaultConfig() *config {
	return &config{
		geom:          NewGeometry(DefaultSize),
		scheme:        DefaultScheme,
		turnStep:      DefaultTurnStep,
		dragThreshold: DefaultDragThreshold,
		renderer:      NopRenderer{},
		logger:        defaultLogger(),
	}
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithSize sets the number of pieces per edge.
func WithSize(n int) Option {
	return func(c *config) {
		c.geom.Size = n
	}
}

// WithSpacing sets the distance between neighbouring piece centres and the
// piece edge length. The gap between pieces is spacing - pieceSize.
func WithSpacing(spacing, pieceSize float64) Option {
	return func(c *config) {
		c.geom.Spacing = spacing
		c.geom.PieceSize = pieceSize
	}
}

// WithStickerLift sets how far facelets float above the piece surface.
func WithStickerLift(lift float64) Option {
	return func(c *config) {
		c.geom.StickerLift = lift
	}
}

// WithEpsilon sets the tolerance used for every coordinate comparison.
func WithEpsilon(eps float64) Option {
	return func(c *config) {
		c.geom.Epsilon = eps
	}
}

// WithTurnStep sets the pivot advance per tick in radians.
// Larger steps give faster, choppier turns.
func WithTurnStep(rad float64) Option {
	return func(c *config) {
		c.turnStep = rad
	}
}

// WithDragThreshold sets the shortest drag, in pieces, that counts as a turn.
func WithDragThreshold(pieces float64) Option {
	return func(c *config) {
		c.dragThreshold = pieces
	}
}

// WithColorScheme sets the solved color of every face.
func WithColorScheme(s Scheme) Option {
	return func(c *config) {
		c.scheme = s
	}
}

// WithRenderer sets the drawing collaborator.
func WithRenderer(r Renderer) Option {
	return func(c *config) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSeed makes scrambles reproducible.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}
