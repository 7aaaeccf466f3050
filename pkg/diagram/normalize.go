package diagram

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/autolayout/pkg/errors"
)

// Default anchors for connections that leave them unset.
const (
	DefaultFromAnchor = AnchorBottom
	DefaultToAnchor   = AnchorTop
)

// connectionSpace namespaces the ids generated for anonymous connections.
var connectionSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("autolayout:connection"))

// ConnectionID is the id [Normalize] gives the i-th connection when it has
// none. It depends only on the position and endpoints, so the same document
// always yields the same ids.
func ConnectionID(i int, from, to string) string {
	return uuid.NewSHA1(connectionSpace, []byte(strconv.Itoa(i)+"/"+from+"/"+to)).String()
}

// Normalize fills in defaults on d in place: missing or unknown anchors
// become bottom/top and connections without an id get [ConnectionID].
// It never fails; malformed structure is handled later by [NewForest] and
// [Promote].
func Normalize(d *Diagram) {
	for i := range d.Connections {
		c := &d.Connections[i]
		if !c.FromAnchor.Valid() {
			c.FromAnchor = DefaultFromAnchor
		}
		if !c.ToAnchor.Valid() {
			c.ToAnchor = DefaultToAnchor
		}
		if c.ID == "" {
			c.ID = ConnectionID(i, c.From, c.To)
		}
	}
	for i := range d.Nodes {
		if f := d.Nodes[i].Frame; f != nil {
			if !f.Layout.Valid() {
				f.Layout = LayoutRow
			}
			if f.Columns < 1 {
				f.Columns = DefaultGridColumns
			}
		}
	}
}

// Validate is the strict boundary check run by the CLI and the HTTP service
// before a diagram reaches the engine. The engine itself tolerates what this
// rejects, apart from non-finite numbers which it does not sanitize.
func Validate(d *Diagram) error {
	seen := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if err := errors.ValidateID("node", n.ID); err != nil {
			return err
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if err := errors.ValidateDimension(n.ID+".width", n.Size.Width); err != nil {
			return err
		}
		if err := errors.ValidateDimension(n.ID+".height", n.Size.Height); err != nil {
			return err
		}
		if err := errors.ValidateCoordinate(n.ID+".x", n.Position.X); err != nil {
			return err
		}
		if err := errors.ValidateCoordinate(n.ID+".y", n.Position.Y); err != nil {
			return err
		}
		if f := n.Frame; f != nil {
			if err := errors.ValidateDimension(n.ID+".padding", f.Padding); err != nil {
				return err
			}
			if err := errors.ValidateDimension(n.ID+".gap", f.Gap); err != nil {
				return err
			}
		}
	}
	for _, c := range d.Connections {
		if c.ID != "" {
			if err := errors.ValidateID("connection", c.ID); err != nil {
				return err
			}
		}
		if c.FromAnchor != "" && !c.FromAnchor.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "connection %s: unknown anchor %q", c.ID, c.FromAnchor)
		}
		if c.ToAnchor != "" && !c.ToAnchor.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "connection %s: unknown anchor %q", c.ID, c.ToAnchor)
		}
	}
	return nil
}
