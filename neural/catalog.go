// Package neural compiles genomes into pruned three-layer networks and
// evaluates them into stochastic action sets.
package neural

// NodeKind distinguishes the three neuron layers.
type NodeKind int

const (
	KindSense NodeKind = iota
	KindInner
	KindAction
)

// SenseType enumerates the sensor catalog. The order is wire-visible: gene
// input indices reduce modulo SenseCount.
type SenseType int

const (
	SenseXLoc SenseType = iota
	SenseYLoc
	SenseDistanceFromNearestEdge
	SenseDistanceFromNearestXEdge
	SenseDistanceFromNearestYEdge
	SenseDistanceFromForwardEdge
	SenseDistanceFromLREdge
	SenseDistanceFromForwardBoundary
	SenseDistanceFromLRBoundary
	SenseDistanceFromNearestXBoundary
	SenseDistanceFromNearestYBoundary
	SensePopulationClose
	SensePopulationForward
	SenseDistanceFromForwardOrganism
	SenseDistanceFromLROrganism
	SenseAge

	SenseCount = int(SenseAge) + 1
)

var senseNames = map[SenseType]string{
	SenseXLoc:                         "xL",
	SenseYLoc:                         "yL",
	SenseDistanceFromNearestEdge:      "dE",
	SenseDistanceFromNearestXEdge:     "dXE",
	SenseDistanceFromNearestYEdge:     "dYE",
	SenseDistanceFromForwardEdge:      "dFE",
	SenseDistanceFromLREdge:           "dLRE",
	SenseDistanceFromForwardBoundary:  "dFB",
	SenseDistanceFromLRBoundary:       "dLRB",
	SenseDistanceFromNearestXBoundary: "dXB",
	SenseDistanceFromNearestYBoundary: "dYB",
	SensePopulationClose:              "pC",
	SensePopulationForward:            "pF",
	SenseDistanceFromForwardOrganism:  "fO",
	SenseDistanceFromLROrganism:       "lrO",
	SenseAge:                          "A",
}

// String returns the short display name used in logs and brain graphs.
func (s SenseType) String() string {
	if name, ok := senseNames[s]; ok {
		return name
	}
	return "unknown"
}

// ActionType enumerates the action catalog. Gene output indices reduce
// modulo ActionCount.
type ActionType int

const (
	ActionMovePosX ActionType = iota
	ActionMoveNegX
	ActionMovePosY
	ActionMoveNegY
	ActionMoveForward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveRandom

	ActionCount = int(ActionMoveRandom) + 1
)

var actionNames = map[ActionType]string{
	ActionMovePosX:    "m+X",
	ActionMoveNegX:    "m-X",
	ActionMovePosY:    "m+Y",
	ActionMoveNegY:    "m-Y",
	ActionMoveForward: "mF",
	ActionMoveLeft:    "mL",
	ActionMoveRight:   "mR",
	ActionMoveRandom:  "mRnd",
}

// String returns the short display name.
func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsCardinal reports whether the action is one of the four axis moves.
func (a ActionType) IsCardinal() bool {
	switch a {
	case ActionMovePosX, ActionMoveNegX, ActionMovePosY, ActionMoveNegY:
		return true
	}
	return false
}
