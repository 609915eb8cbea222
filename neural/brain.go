package neural

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/evosim/genome"
)

// Action is one sampled output: the action id and the trigger probability
// that fired it. Every action in the catalog is a move, and executing a move
// reads only the id.
type Action struct {
	ID    ActionType
	Value float64
}

// Brain is the pruned three-layer network compiled from a genome. It is
// built once per organism and never mutated afterwards.
type Brain struct {
	senseNodes  []*Node
	innerNodes  []*Node
	actionNodes []*Node
}

// CatalogFor returns the gene-decoding catalog for a given inner node count.
func CatalogFor(innerNodes int) genome.Catalog {
	return genome.Catalog{Senses: SenseCount, Inners: innerNodes, Actions: ActionCount}
}

// NewBrain compiles a genome into an executable network: materialize the
// nodes each gene references, connect them, then prune everything that can
// never influence an action.
func NewBrain(g genome.Genome, innerNodes int) *Brain {
	b := &Brain{}
	b.generateNodes(g, CatalogFor(innerNodes))
	b.removeUselessConnections()
	return b
}

type nodeKey struct {
	kind NodeKind
	id   int
}

// generateNodes materializes nodes lazily, keyed by (kind, effective id),
// and records each gene's connection on both endpoints. Slices keep the
// first-reference order so evaluation and pruning are deterministic.
func (b *Brain) generateNodes(g genome.Genome, cat genome.Catalog) {
	nodes := make(map[nodeKey]*Node)

	materialize := func(kind NodeKind, id int) *Node {
		key := nodeKey{kind, id}
		if node, ok := nodes[key]; ok {
			return node
		}
		node := newNode(kind, id)
		nodes[key] = node
		switch kind {
		case KindSense:
			b.senseNodes = append(b.senseNodes, node)
		case KindInner:
			b.innerNodes = append(b.innerNodes, node)
		default:
			b.actionNodes = append(b.actionNodes, node)
		}
		return node
	}

	for _, gene := range g {
		inKind := KindSense
		if gene.InputIsInner() {
			inKind = KindInner
		}
		outKind := KindInner
		if gene.OutputIsAction() {
			outKind = KindAction
		}

		input := materialize(inKind, gene.InputID(cat))
		output := materialize(outKind, gene.OutputID(cat))

		conn := &Connection{Input: input, Output: output, Weight: gene.Weight()}
		input.connections = append(input.connections, conn)
		if output != input {
			output.connections = append(output.connections, conn)
		}
	}
}

// removeUselessConnections prunes inner nodes that cannot carry signal: a
// node with no live non-self input or no live non-self output is dead.
// Because inner nodes can chain into each other, removing one can strand
// another, so passes repeat until nothing changes; each changing pass
// strictly shrinks the live inner set, so the loop terminates. Sense nodes
// with no surviving output and action nodes with no surviving input are
// then dropped in a single sweep.
func (b *Brain) removeUselessConnections() {
	for {
		clean := true
		for _, node := range b.innerNodes {
			if !node.willDelete && (!node.hasOutput() || !node.hasInput()) {
				node.severConnections()
				node.willDelete = true
				clean = false
			}
		}
		if clean {
			break
		}
	}

	for _, node := range b.senseNodes {
		if !node.hasOutput() {
			node.willDelete = true
		}
	}
	for _, node := range b.actionNodes {
		if !node.hasInput() {
			node.willDelete = true
		}
	}

	b.senseNodes = compactLive(b.senseNodes)
	b.innerNodes = compactLive(b.innerNodes)
	b.actionNodes = compactLive(b.actionNodes)
}

func compactLive(nodes []*Node) []*Node {
	live := nodes[:0]
	for _, node := range nodes {
		if !node.willDelete {
			live = append(live, node)
		}
	}
	return live
}

// SenseNodes returns the live sense nodes.
func (b *Brain) SenseNodes() []*Node { return b.senseNodes }

// InnerNodes returns the live inner nodes.
func (b *Brain) InnerNodes() []*Node { return b.innerNodes }

// ActionNodes returns the live action nodes.
func (b *Brain) ActionNodes() []*Node { return b.actionNodes }

// NodeCount returns the total number of live nodes.
func (b *Brain) NodeCount() int {
	return len(b.senseNodes) + len(b.innerNodes) + len(b.actionNodes)
}

// Reset clears every node value. The network is stateless across steps;
// memory lives only in the organism's position and last move.
func (b *Brain) Reset() {
	for _, node := range b.senseNodes {
		node.reset()
	}
	for _, node := range b.innerNodes {
		node.reset()
	}
	for _, node := range b.actionNodes {
		node.reset()
	}
}

// Evaluate runs one forward pass and samples the resulting actions. Sense
// values are read from senseValues by node id; inner then action nodes
// accumulate their incoming edges in a single pass, so inner-to-inner edges
// and self-loops see whatever value was present this step. Each action node
// fires with probability (tanh(value)+1)/2. The caller resets node values
// before the next step.
func (b *Brain) Evaluate(senseValues []float64, rng *rand.Rand) []Action {
	for _, node := range b.senseNodes {
		node.Value = senseValues[node.ID]
	}

	for _, node := range b.innerNodes {
		node.applyConnections()
	}
	for _, node := range b.actionNodes {
		node.applyConnections()
	}

	var actions []Action
	for _, node := range b.actionNodes {
		triggerChance := (math.Tanh(node.Value) + 1) / 2
		if rng.Float64() < triggerChance {
			actions = append(actions, Action{ID: ActionType(node.ID), Value: triggerChance})
		}
	}
	return actions
}
