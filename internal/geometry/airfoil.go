package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mohae/deepcopy"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Defaults applied by NewAirfoil. The midpoint sits at half chord on the
// chord line of a unit-chord Selig outline.
const (
	DefaultChord = 1.0
	DefaultTwist = 0.0
)

// DefaultMidPoint is the pivot used for twist and scale on a freshly
// loaded airfoil.
var DefaultMidPoint = Point{X: 0.5}

// Slot arc parameters. The arc starts at the bottom of the circle (270°)
// and steps by slotStepDeg until it is back where it started.
const (
	slotStartDeg = 270.0
	slotStepDeg  = 6.0
	slotSteps    = 60
)

var (
	// ErrTwistNotZero is returned by AddSlot when the outline is twisted.
	// The lower-surface search walks x monotonically, which only holds for
	// an untwisted outline.
	ErrTwistNotZero = errors.New("twist angle not zero")

	// ErrSlotOutOfRange is returned by AddSlot when no lower-surface point
	// lies beyond the requested x position.
	ErrSlotOutOfRange = errors.New("slot position outside outline")

	// ErrInvalidRadius is returned by AddSlot for a non-positive radius.
	ErrInvalidRadius = errors.New("slot radius must be positive")

	// ErrInvalidScale is returned by Scale for a zero or non-finite factor.
	ErrInvalidScale = errors.New("scale factor must be finite and non-zero")

	// ErrIndexOutOfRange is returned by the point splice operations.
	ErrIndexOutOfRange = errors.New("point index out of range")
)

// Airfoil is a named outline together with the reference data its
// transforms are expressed against.
type Airfoil struct {
	// Name is the display name, taken from the first line of a Selig file.
	Name string `json:"name"`

	// Points is the outline in drawing order.
	Points []Point `json:"points"`

	// MidPoint is the pivot for Rotate and Scale. Move carries it along
	// with the outline.
	MidPoint Point `json:"midPoint"`

	// Twist is the cumulative rotation in degrees applied by Rotate.
	Twist float64 `json:"twist"`

	// Chord is the scale reference; Scale multiplies it.
	Chord float64 `json:"chord"`
}

// NewAirfoil creates an Airfoil with the default midpoint, twist and chord.
// The points slice is used as-is; callers hand over ownership.
func NewAirfoil(name string, points []Point) *Airfoil {
	return &Airfoil{
		Name:     name,
		Points:   points,
		MidPoint: DefaultMidPoint,
		Twist:    DefaultTwist,
		Chord:    DefaultChord,
	}
}

// Len returns the number of outline points.
func (a *Airfoil) Len() int {
	return len(a.Points)
}

// AddPoint appends p to the end of the outline.
func (a *Airfoil) AddPoint(p Point) {
	a.Points = append(a.Points, p)
}

// InsertPoint inserts p before index. index == Len() appends.
func (a *Airfoil) InsertPoint(index int, p Point) error {
	if index < 0 || index > len(a.Points) {
		return fmt.Errorf("insert at %d (outline has %d points): %w", index, len(a.Points), ErrIndexOutOfRange)
	}
	a.Points = append(a.Points, Point{})
	copy(a.Points[index+1:], a.Points[index:])
	a.Points[index] = p
	return nil
}

// ReplacePoint overwrites the point at index with p.
func (a *Airfoil) ReplacePoint(index int, p Point) error {
	if index < 0 || index >= len(a.Points) {
		return fmt.Errorf("replace at %d (outline has %d points): %w", index, len(a.Points), ErrIndexOutOfRange)
	}
	a.Points[index] = p
	return nil
}

// Rotate twists the outline about MidPoint by delta degrees
// (counter-clockwise positive) and adds delta to Twist.
//
// Each point keeps its distance to the pivot; only its polar angle changes.
// Rotations compose: Rotate(a) followed by Rotate(b) equals Rotate(a+b).
func (a *Airfoil) Rotate(delta float64) {
	if delta == 0 {
		return
	}
	a.Twist += delta

	mx, my := a.MidPoint.X, a.MidPoint.Y
	for i := range a.Points {
		p := &a.Points[i]
		dx, dy := p.X-mx, p.Y-my

		alpha := math.Atan2(dy, dx) + delta*math.Pi/180
		r := math.Hypot(dx, dy)

		p.X = mx + r*math.Cos(alpha)
		p.Y = my + r*math.Sin(alpha)
	}
}

// SetTwist rotates the outline so that Twist becomes theta.
func (a *Airfoil) SetTwist(theta float64) {
	a.Rotate(theta - a.Twist)
}

// Move translates every point and the midpoint by (dx, dy, dz).
func (a *Airfoil) Move(dx, dy, dz float64) {
	a.MidPoint.Move(dx, dy, dz)
	for i := range a.Points {
		a.Points[i].Move(dx, dy, dz)
	}
}

// Scale scales the outline about MidPoint in the XY plane and multiplies
// Chord by factor. A negative factor mirrors the outline through the pivot.
func (a *Airfoil) Scale(factor float64) error {
	if factor == 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("scale by %v: %w", factor, ErrInvalidScale)
	}

	mx, my := a.MidPoint.X, a.MidPoint.Y
	for i := range a.Points {
		p := &a.Points[i]
		p.X = (p.X-mx)*factor + mx
		p.Y = (p.Y-my)*factor + my
	}
	a.Chord *= factor
	return nil
}

// AddSlot cuts a circular slot of radius r centred at (xPos, yPos) into the
// lower surface of the outline.
//
// The lower surface is taken to be the second half of the points. The first
// point there with X > xPos (p2) is replaced by the slot run:
//
//	start, bottom, arc[0..59], start
//
// where start sits at xPos halfway between p2 and its predecessor in Y,
// bottom is (xPos, yPos-r), and the arc walks the circle in 6° steps from
// the bottom back to the bottom. The outline must not be twisted.
func (a *Airfoil) AddSlot(xPos, yPos, r float64) error {
	if a.Twist != 0 {
		return fmt.Errorf("cannot add slot at twist %v: %w", a.Twist, ErrTwistNotZero)
	}
	if !(r > 0) {
		return fmt.Errorf("cannot add slot with radius %v: %w", r, ErrInvalidRadius)
	}

	n := len(a.Points)
	at := -1
	for i := max(n/2, 1); i < n; i++ {
		if a.Points[i].X > xPos {
			at = i
			break
		}
	}
	if at < 0 {
		return fmt.Errorf("no lower-surface point beyond x=%v: %w", xPos, ErrSlotOutOfRange)
	}

	p1, p2 := a.Points[at-1], a.Points[at]
	run := SlotPoints(Pt(xPos, (p1.Y+p2.Y)/2), xPos, yPos, r)

	points := make([]Point, 0, n-1+len(run))
	points = append(points, a.Points[:at]...)
	points = append(points, run...)
	points = append(points, a.Points[at+1:]...)
	a.Points = points
	return nil
}

// SlotPoints builds the point run AddSlot splices into an outline: the
// entry point, the bottom of the circle centred at (xPos, yPos), the arc
// back to the bottom, and the entry point again.
func SlotPoints(entry Point, xPos, yPos, r float64) []Point {
	run := make([]Point, 0, slotSteps+3)
	run = append(run, entry, Pt(xPos, yPos-r))

	theta := slotStartDeg
	for i := 0; i < slotSteps; i++ {
		theta -= slotStepDeg
		rad := theta * math.Pi / 180
		run = append(run, Pt(xPos+r*math.Cos(rad), yPos+r*math.Sin(rad)))
	}

	return append(run, entry)
}

// Clone returns a deep copy of a.
func (a *Airfoil) Clone() *Airfoil {
	return deepcopy.Copy(a).(*Airfoil)
}

// LineString returns the outline as a planar orb.LineString (Z dropped).
func (a *Airfoil) LineString() orb.LineString {
	ls := make(orb.LineString, len(a.Points))
	for i, p := range a.Points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

// Bounds returns the axis-aligned bounding box of the outline in the XY
// plane. An empty outline yields two zero points.
func (a *Airfoil) Bounds() (lo, hi Point) {
	if len(a.Points) == 0 {
		return Point{}, Point{}
	}
	b := a.LineString().Bound()
	return Pt(b.Min.X(), b.Min.Y()), Pt(b.Max.X(), b.Max.Y())
}

// Perimeter returns the length of the outline polyline in the XY plane.
func (a *Airfoil) Perimeter() float64 {
	if len(a.Points) < 2 {
		return 0
	}
	return planar.Length(a.LineString())
}

// Label is the legend text used by the plot: "<name> twist:<twist>".
func (a *Airfoil) Label() string {
	return a.Name + " twist:" + strconv.FormatFloat(a.Twist, 'g', -1, 64)
}

func (a *Airfoil) String() string {
	return a.Label()
}
