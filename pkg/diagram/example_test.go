package diagram_test

import (
	"fmt"

	"github.com/matzehuels/autolayout/pkg/diagram"
)

func ExamplePromote() {
	// A connection into a frame child is lifted to the frame itself.
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			diagram.NewFrame("vpc", "VPC", diagram.WithChildren("api", "db")),
			diagram.Atomic("api", 0, 0),
			diagram.Atomic("db", 0, 0),
			diagram.Atomic("client", 0, 0),
		},
		Connections: []diagram.Connection{
			{ID: "c1", From: "client", To: "api"},
			{ID: "c2", From: "api", To: "db"},
		},
	}
	diagram.Normalize(d)
	for _, e := range diagram.Promote(d, diagram.NewForest(d)) {
		fmt.Printf("%s -> %s (%s/%s)\n", d.Nodes[e.From].ID, d.Nodes[e.To].ID, e.FromAnchor, e.ToAnchor)
	}
	// Output:
	// client -> vpc (bottom/top)
}
