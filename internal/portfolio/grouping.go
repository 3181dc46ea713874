package portfolio

import (
	"errors"

	"github.com/propcover/insurance-master/internal/model"
)

// Unassigned is the synthetic bucket key for buildings without a
// valid primary agent.  It is also accepted by MoveBuilding as the
// target that clears an assignment.
const Unassigned = "unassigned"

// ErrBuildingNotFound is returned by MoveBuilding when the building id
// does not identify any building in the given collection.  Reassigning
// a nonexistent building must surface as an error rather than a silent
// no-op, otherwise UI bugs go unnoticed.
var ErrBuildingNotFound = errors.New("building not found")

// ErrUnknownAgent is returned by MoveBuilding when the target is
// neither a known agent id nor the Unassigned sentinel.
var ErrUnknownAgent = errors.New("unknown agent")

// GroupByAgent partitions buildings into one bucket per agent plus the
// synthetic Unassigned bucket.  Every agent gets a bucket even when
// empty, so the board renders a column for agents with no buildings.
// A building whose PrimaryAgentID is unset, or references an id not in
// agents (a dangling assignment left behind by an agent deletion),
// lands in Unassigned — no building is ever dropped.  Relative input
// order is preserved within each bucket.
func GroupByAgent(buildings []model.Building, agents []model.Agent) map[string][]model.Building {
	known := make(map[string]bool, len(agents))
	out := make(map[string][]model.Building, len(agents)+1)
	out[Unassigned] = []model.Building{}
	for _, a := range agents {
		known[a.ID] = true
		out[a.ID] = []model.Building{}
	}
	for _, b := range buildings {
		key := Unassigned
		if b.PrimaryAgentID != nil && known[*b.PrimaryAgentID] {
			key = *b.PrimaryAgentID
		}
		out[key] = append(out[key], b)
	}
	return out
}

// MoveBuilding returns a copy of buildings with the identified
// building reassigned to agentID, or with its assignment cleared when
// agentID is the Unassigned sentinel.  The input slice is not
// modified.  Moving a building to the agent it already belongs to is
// a valid no-op in effect.
func MoveBuilding(buildings []model.Building, agents []model.Agent, buildingID, agentID string) ([]model.Building, error) {
	if agentID != Unassigned {
		found := false
		for _, a := range agents {
			if a.ID == agentID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownAgent
		}
	}

	out := make([]model.Building, len(buildings))
	copy(out, buildings)
	for i := range out {
		if out[i].ID != buildingID {
			continue
		}
		if agentID == Unassigned {
			out[i].PrimaryAgentID = nil
		} else {
			id := agentID
			out[i].PrimaryAgentID = &id
		}
		return out, nil
	}
	return nil, ErrBuildingNotFound
}
