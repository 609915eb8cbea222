package neural

import "strconv"

// Node is one neuron: a kind, an id within its kind's catalog, the scalar
// value accumulated during a step, and every connection touching it.
type Node struct {
	Kind  NodeKind
	ID    int
	Value float64

	connections []*Connection
	willDelete  bool
}

// Connection is a weighted edge between two nodes. A self-loop on an inner
// node is legal during construction; pruning treats it as neither input nor
// output for liveness.
type Connection struct {
	Input  *Node
	Output *Node
	Weight float64
}

func newNode(kind NodeKind, id int) *Node {
	return &Node{Kind: kind, ID: id}
}

// hasOutput reports whether the node feeds any live node other than itself.
func (n *Node) hasOutput() bool {
	for _, conn := range n.connections {
		if conn.Input == n && conn.Output != n && !conn.Output.willDelete {
			return true
		}
	}
	return false
}

// hasInput reports whether any live node other than itself feeds the node.
func (n *Node) hasInput() bool {
	for _, conn := range n.connections {
		if conn.Output == n && conn.Input != n && !conn.Input.willDelete {
			return true
		}
	}
	return false
}

// applyConnections accumulates every incoming edge into the node value.
func (n *Node) applyConnections() {
	for _, conn := range n.connections {
		if conn.Output == n {
			n.Value += conn.Input.Value * conn.Weight
		}
	}
}

// severConnections detaches every edge from both endpoints.
func (n *Node) severConnections() {
	conns := n.connections
	n.connections = nil
	for _, conn := range conns {
		if conn.Input != n {
			conn.Input.dropConnection(conn)
		}
		if conn.Output != n {
			conn.Output.dropConnection(conn)
		}
	}
}

func (n *Node) dropConnection(target *Connection) {
	kept := n.connections[:0]
	for _, conn := range n.connections {
		if conn != target {
			kept = append(kept, conn)
		}
	}
	n.connections = kept
}

// reset clears the accumulated value between steps.
func (n *Node) reset() {
	n.Value = 0
}

// Connections returns the node's edge list, for graph output.
func (n *Node) Connections() []*Connection { return n.connections }

// Name returns the catalog display name for sense and action nodes, or the
// bare id for inner nodes.
func (n *Node) Name() string {
	switch n.Kind {
	case KindSense:
		return SenseType(n.ID).String()
	case KindAction:
		return ActionType(n.ID).String()
	default:
		return strconv.Itoa(n.ID)
	}
}
