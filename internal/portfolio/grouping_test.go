package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcover/insurance-master/internal/model"
)

func strptr(s string) *string { return &s }

func testAgents() []model.Agent {
	return []model.Agent{
		{ID: "agent-1", Name: "Sarah Johnson"},
		{ID: "agent-2", Name: "Mike Chen"},
	}
}

func testBuildings() []model.Building {
	return []model.Building{
		{ID: "bld-1", Name: "Sunset Plaza", PrimaryAgentID: strptr("agent-1")},
		{ID: "bld-2", Name: "Harbor View", PrimaryAgentID: strptr("agent-2")},
		{ID: "bld-3", Name: "Oak Court"},
		{ID: "bld-4", Name: "Pine Ridge", PrimaryAgentID: strptr("agent-1")},
	}
}

func TestGroupByAgentPartition(t *testing.T) {
	buckets := GroupByAgent(testBuildings(), testAgents())

	// One bucket per agent plus unassigned, even when empty.
	require.Len(t, buckets, 3)

	// Union of buckets equals the input set: nothing lost, nothing duplicated.
	total := 0
	seen := map[string]int{}
	for _, bs := range buckets {
		total += len(bs)
		for _, b := range bs {
			seen[b.ID]++
		}
	}
	assert.Equal(t, 4, total)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	// Input order is preserved within a bucket.
	require.Len(t, buckets["agent-1"], 2)
	assert.Equal(t, "bld-1", buckets["agent-1"][0].ID)
	assert.Equal(t, "bld-4", buckets["agent-1"][1].ID)

	require.Len(t, buckets[Unassigned], 1)
	assert.Equal(t, "bld-3", buckets[Unassigned][0].ID)
}

func TestGroupByAgentInterleavedOrder(t *testing.T) {
	// Buildings arrive interleaved across owners; each bucket must keep
	// the relative input order, including unassigned.
	buildings := []model.Building{
		{ID: "bld-5", Name: "Cedar Row", PrimaryAgentID: strptr("agent-2")},
		{ID: "bld-1", Name: "Sunset Plaza", PrimaryAgentID: strptr("agent-1")},
		{ID: "bld-3", Name: "Oak Court"},
		{ID: "bld-4", Name: "Pine Ridge", PrimaryAgentID: strptr("agent-1")},
		{ID: "bld-2", Name: "Harbor View", PrimaryAgentID: strptr("agent-2")},
	}
	buckets := GroupByAgent(buildings, testAgents())

	ids := func(bs []model.Building) []string {
		out := make([]string, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}
	assert.Equal(t, []string{"bld-1", "bld-4"}, ids(buckets["agent-1"]))
	assert.Equal(t, []string{"bld-5", "bld-2"}, ids(buckets["agent-2"]))
	assert.Equal(t, []string{"bld-3"}, ids(buckets[Unassigned]))
}

func TestGroupByAgentDanglingReference(t *testing.T) {
	buildings := []model.Building{
		{ID: "bld-1", PrimaryAgentID: strptr("agent-gone")},
	}
	buckets := GroupByAgent(buildings, testAgents())

	// A stale agent id must not create a ghost bucket; the building
	// surfaces under unassigned instead of silently disappearing.
	_, ok := buckets["agent-gone"]
	assert.False(t, ok)
	require.Len(t, buckets[Unassigned], 1)
	assert.Equal(t, "bld-1", buckets[Unassigned][0].ID)
}

func TestGroupByAgentEmptyInputs(t *testing.T) {
	buckets := GroupByAgent(nil, nil)
	require.Len(t, buckets, 1)
	assert.Empty(t, buckets[Unassigned])
}

func TestMoveBuilding(t *testing.T) {
	buildings := testBuildings()
	agents := testAgents()

	moved, err := MoveBuilding(buildings, agents, "bld-1", "agent-2")
	require.NoError(t, err)

	buckets := GroupByAgent(moved, agents)
	ids := func(bs []model.Building) []string {
		out := make([]string, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}
	assert.Contains(t, ids(buckets["agent-2"]), "bld-1")
	assert.NotContains(t, ids(buckets["agent-1"]), "bld-1")

	// The input slice stays untouched.
	assert.Equal(t, "agent-1", *buildings[0].PrimaryAgentID)
}

func TestMoveBuildingToUnassigned(t *testing.T) {
	moved, err := MoveBuilding(testBuildings(), testAgents(), "bld-2", Unassigned)
	require.NoError(t, err)

	for _, b := range moved {
		if b.ID == "bld-2" {
			assert.Nil(t, b.PrimaryAgentID)
		}
	}
}

func TestMoveBuildingIdempotent(t *testing.T) {
	agents := testAgents()
	once, err := MoveBuilding(testBuildings(), agents, "bld-3", "agent-1")
	require.NoError(t, err)
	twice, err := MoveBuilding(once, agents, "bld-3", "agent-1")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestMoveBuildingErrors(t *testing.T) {
	_, err := MoveBuilding(testBuildings(), testAgents(), "no-such-building", "agent-1")
	assert.ErrorIs(t, err, ErrBuildingNotFound)

	_, err = MoveBuilding(testBuildings(), testAgents(), "bld-1", "no-such-agent")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

// End-to-end scenario from the dashboard: a building assigned to
// agent-1 with a policy expiring in 10 days shows up on the board under
// agent-1 with the expiring highlight, and the policy reads as
// expiring-soon.
func TestBoardScenario(t *testing.T) {
	agents := testAgents()
	b1 := model.Building{ID: "B1", PrimaryAgentID: strptr("agent-1")}
	b2 := model.Building{ID: "B2"}
	ref := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	p1 := model.Policy{ID: "P1", BuildingID: "B1", ExpirationDate: ref.AddDate(0, 0, 10).Format(ISODate)}

	cl := Classifier{}
	assert.Equal(t, model.StatusExpiringSoon, cl.ClassifyDate(p1.ExpirationDate, ref))
	assert.True(t, IsExpiringWithin(DefaultExpiryHighlightDays, []model.Policy{p1}, ref))

	buckets := GroupByAgent([]model.Building{b1, b2}, agents)
	require.Len(t, buckets["agent-1"], 1)
	assert.Equal(t, "B1", buckets["agent-1"][0].ID)
	require.Len(t, buckets[Unassigned], 1)
	assert.Equal(t, "B2", buckets[Unassigned][0].ID)
	assert.False(t, IsExpiringWithin(DefaultExpiryHighlightDays, nil, ref))
}
