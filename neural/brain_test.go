package neural

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/evosim/genome"
)

const testInnerNodes = 4

// buildGene assembles a gene word for tests, with reserved bits clear.
func buildGene(inputInner bool, rawInput int, outputAction bool, rawOutput, rawWeight int) genome.Gene {
	var word uint32
	if inputInner {
		word |= 1 << 23
	}
	word |= uint32(rawInput) << 17
	if outputAction {
		word |= 1 << 15
	}
	word |= uint32(rawOutput) << 9
	word |= uint32(rawWeight)
	return genome.NewGene(word)
}

func TestNewBrainEmptyGenome(t *testing.T) {
	b := NewBrain(genome.Genome{}, testInnerNodes)

	if b.NodeCount() != 0 {
		t.Errorf("empty genome produced %d nodes, want 0", b.NodeCount())
	}

	rng := rand.New(rand.NewSource(42))
	if actions := b.Evaluate(make([]float64, SenseCount), rng); len(actions) != 0 {
		t.Errorf("empty brain emitted %d actions, want 0", len(actions))
	}
}

func TestNewBrainDirectConnection(t *testing.T) {
	// One gene wiring a sense straight to an action survives intact.
	g := genome.Genome{buildGene(false, 0, true, 0, 255)}
	b := NewBrain(g, testInnerNodes)

	if len(b.SenseNodes()) != 1 || len(b.InnerNodes()) != 0 || len(b.ActionNodes()) != 1 {
		t.Fatalf("node counts = %d/%d/%d, want 1/0/1",
			len(b.SenseNodes()), len(b.InnerNodes()), len(b.ActionNodes()))
	}
}

// TestNewBrainPrunesDeadInnerChain builds sense -> A -> B -> C with no
// output from C: the whole chain collapses over successive passes and the
// stranded sense node goes with it.
func TestNewBrainPrunesDeadInnerChain(t *testing.T) {
	g := genome.Genome{
		buildGene(false, 0, false, 0, 200), // sense 0 -> inner A
		buildGene(true, 0, false, 1, 200),  // inner A -> inner B
		buildGene(true, 1, false, 2, 200),  // inner B -> inner C
	}
	b := NewBrain(g, testInnerNodes)

	if b.NodeCount() != 0 {
		t.Errorf("dead chain left %d live nodes, want 0", b.NodeCount())
	}
}

func TestNewBrainPrunesSelfLoopOnlyInner(t *testing.T) {
	// An inner node feeding only itself has no live input or output.
	g := genome.Genome{buildGene(true, 0, false, 0, 200)}
	b := NewBrain(g, testInnerNodes)

	if b.NodeCount() != 0 {
		t.Errorf("self-loop inner left %d live nodes, want 0", b.NodeCount())
	}
}

func TestNewBrainKeepsUsefulInner(t *testing.T) {
	// sense -> inner (with a self-loop) -> action stays alive.
	g := genome.Genome{
		buildGene(false, 0, false, 0, 200), // sense 0 -> inner 0
		buildGene(true, 0, false, 0, 200),  // inner 0 -> inner 0 (self-loop)
		buildGene(true, 0, true, 0, 200),   // inner 0 -> action 0
	}
	b := NewBrain(g, testInnerNodes)

	if len(b.SenseNodes()) != 1 || len(b.InnerNodes()) != 1 || len(b.ActionNodes()) != 1 {
		t.Fatalf("node counts = %d/%d/%d, want 1/1/1",
			len(b.SenseNodes()), len(b.InnerNodes()), len(b.ActionNodes()))
	}
}

// TestBrainConnectivityInvariants checks, across many random genomes, that
// no live node survives pruning without the connectivity the network
// contract requires.
func TestBrainConnectivityInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		g := genome.Random(rng, 12)
		b := NewBrain(g, testInnerNodes)

		for _, node := range b.InnerNodes() {
			if !node.hasInput() || !node.hasOutput() {
				t.Fatalf("trial %d: live inner node %d lacks connectivity", trial, node.ID)
			}
		}
		for _, node := range b.SenseNodes() {
			if !node.hasOutput() {
				t.Fatalf("trial %d: live sense node %d has no outgoing edge", trial, node.ID)
			}
		}
		for _, node := range b.ActionNodes() {
			if !node.hasInput() {
				t.Fatalf("trial %d: live action node %d has no incoming edge", trial, node.ID)
			}
		}
	}
}

func TestBrainEvaluateTriggerProbability(t *testing.T) {
	// Max weight and a saturated sense push the trigger chance above 0.98;
	// over 100 evaluations nearly all should fire.
	g := genome.Genome{buildGene(false, 0, true, 0, 255)}
	b := NewBrain(g, testInnerNodes)
	rng := rand.New(rand.NewSource(42))

	senses := make([]float64, SenseCount)
	senses[0] = 1.0

	fired := 0
	for i := 0; i < 100; i++ {
		b.Reset()
		if actions := b.Evaluate(senses, rng); len(actions) > 0 {
			if actions[0].ID != ActionMovePosX {
				t.Fatalf("unexpected action id %v", actions[0].ID)
			}
			if actions[0].Value < 0.98 {
				t.Fatalf("trigger value = %v, want > 0.98", actions[0].Value)
			}
			fired++
		}
	}
	if fired < 90 {
		t.Errorf("fired %d/100 times, want >= 90", fired)
	}
}

func TestBrainEvaluatePropagatesThroughInner(t *testing.T) {
	// sense -> inner -> action with weight 1 on both hops. Raw weight 160
	// decodes to exactly 1.
	g := genome.Genome{
		buildGene(false, 0, false, 0, 160),
		buildGene(true, 0, true, 0, 160),
	}
	b := NewBrain(g, testInnerNodes)
	rng := rand.New(rand.NewSource(1))

	senses := make([]float64, SenseCount)
	senses[0] = 0.5

	b.Reset()
	b.Evaluate(senses, rng)

	action := b.ActionNodes()[0]
	if math.Abs(action.Value-0.5) > 1e-9 {
		t.Errorf("action node value = %v, want 0.5", action.Value)
	}
}

func TestBrainResetClearsValues(t *testing.T) {
	g := genome.Genome{buildGene(false, 0, true, 0, 255)}
	b := NewBrain(g, testInnerNodes)
	rng := rand.New(rand.NewSource(1))

	senses := make([]float64, SenseCount)
	senses[0] = 1.0
	b.Evaluate(senses, rng)
	b.Reset()

	for _, node := range b.SenseNodes() {
		if node.Value != 0 {
			t.Errorf("sense node value = %v after reset", node.Value)
		}
	}
	for _, node := range b.ActionNodes() {
		if node.Value != 0 {
			t.Errorf("action node value = %v after reset", node.Value)
		}
	}
}

func TestTriggerChanceBounds(t *testing.T) {
	for _, v := range []float64{-1000, -4, -1, 0, 1, 4, 1000} {
		p := (math.Tanh(v) + 1) / 2
		if p < 0 || p > 1 {
			t.Errorf("trigger chance for %v out of range: %v", v, p)
		}
	}
}

func TestCatalogNames(t *testing.T) {
	if SenseCount != 16 {
		t.Errorf("SenseCount = %d, want 16", SenseCount)
	}
	if ActionCount != 8 {
		t.Errorf("ActionCount = %d, want 8", ActionCount)
	}
	if got := SenseXLoc.String(); got != "xL" {
		t.Errorf("SenseXLoc name = %q, want xL", got)
	}
	if got := ActionMovePosX.String(); got != "m+X" {
		t.Errorf("ActionMovePosX name = %q, want m+X", got)
	}
	if got := SenseType(99).String(); got != "unknown" {
		t.Errorf("out-of-catalog sense name = %q, want unknown", got)
	}
}
