package team

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlm-storefront/models"
)

func member(id, name string) models.TeamMember {
	return models.TeamMember{UserID: id, Name: name, Email: name + "@example.com"}
}

func sampleOverview() models.TeamOverview {
	return models.TeamOverview{
		Summary: models.TeamSummary{
			TotalTeamMembers: 12,
			DirectReferrals:  5,
			TeamDepth:        2,
		},
		DirectTeam: []models.TeamMember{
			member("u-1", "a"), member("u-2", "b"), member("u-3", "c"),
			member("u-4", "d"), member("u-5", "e"),
		},
	}
}

func TestNormalizeDerivesAllViews(t *testing.T) {
	views := Normalize(sampleOverview())

	summary := views.Overview.Summary
	assert.Equal(t, models.Count(12), summary.TotalTeamMembers)
	assert.Equal(t, models.Count(5), summary.DirectReferrals)
	assert.Equal(t, models.Count(7), summary.IndirectReferrals)
	assert.Equal(t, models.Count(2), summary.TeamDepth)
	assert.Len(t, views.Overview.DirectTeam, 5)

	assert.Equal(t, "You", views.Tree.TeamTree.User.Name)
	require.Len(t, views.Tree.TeamTree.Team, 5)
	for _, node := range views.Tree.TeamTree.Team {
		require.NotNil(t, node.SubTeam)
		assert.Empty(t, node.SubTeam)
	}

	assert.Len(t, views.List, 5)
	assert.Equal(t, "u-1", views.List[0].UserID)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	input := sampleOverview()
	first := Normalize(input)
	second := Normalize(input)
	assert.Equal(t, first, second)
}

func TestNormalizeDefaultsMissingSummary(t *testing.T) {
	var input models.TeamOverview
	require.NoError(t, json.Unmarshal([]byte(`{"directTeam":[]}`), &input))

	views := Normalize(input)
	summary := views.Overview.Summary
	assert.Zero(t, summary.TotalTeamMembers)
	assert.Zero(t, summary.DirectReferrals)
	assert.Zero(t, summary.IndirectReferrals)
	assert.Zero(t, summary.TeamDepth)
	assert.Empty(t, views.List)
	assert.Empty(t, views.Tree.TeamTree.Team)
}

func TestNormalizeToleratesMalformedSummary(t *testing.T) {
	var input models.TeamOverview
	payload := `{"summary":{"totalTeamMembers":"twelve","directReferrals":null,"teamDepth":"2"},"directTeam":[{"userId":"u-1","name":"a"}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &input))

	views := Normalize(input)
	assert.Zero(t, views.Overview.Summary.TotalTeamMembers)
	assert.Zero(t, views.Overview.Summary.DirectReferrals)
	assert.Equal(t, models.Count(2), views.Overview.Summary.TeamDepth)
	assert.Len(t, views.List, 1)
}

func TestNormalizeNeverComputesNegativeIndirect(t *testing.T) {
	views := Normalize(models.TeamOverview{
		Summary:    models.TeamSummary{TotalTeamMembers: 3, DirectReferrals: 5},
		DirectTeam: []models.TeamMember{member("u-1", "a")},
	})
	assert.Equal(t, models.Count(0), views.Overview.Summary.IndirectReferrals)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := sampleOverview()
	input.DirectTeam[0].SubTeam = nil

	_ = Normalize(input)

	assert.Nil(t, input.DirectTeam[0].SubTeam)
	assert.Len(t, input.DirectTeam, 5)
}

func nestedTeam() []models.TeamMember {
	level3 := []models.TeamMember{member("u-311", "deep")}
	level2 := []models.TeamMember{
		{UserID: "u-21", Name: "mid", SubTeam: level3},
	}
	return []models.TeamMember{
		{UserID: "u-1", Name: "top", SubTeam: level2},
		member("u-2", "flat"),
	}
}

func TestWalkRespectsDepthBound(t *testing.T) {
	var visited []string
	var depths []int
	Walk(nestedTeam(), 2, func(m models.TeamMember, depth int) {
		visited = append(visited, m.UserID)
		depths = append(depths, depth)
	})

	assert.Equal(t, []string{"u-1", "u-21", "u-2"}, visited)
	assert.Equal(t, []int{1, 2, 1}, depths)
}

func TestWalkFullDepth(t *testing.T) {
	count := 0
	Walk(nestedTeam(), 10, func(models.TeamMember, int) { count++ })
	assert.Equal(t, 4, count)

	Walk(nestedTeam(), 0, func(models.TeamMember, int) {
		t.Fatal("walk with maxDepth 0 must not visit anyone")
	})
}

func TestReconcileReferralsKeepsMatchingSet(t *testing.T) {
	overview := Normalize(sampleOverview()).Overview
	info := models.ReferralInfo{
		ReferralCode: "abc123",
		ReferralLink: "https://shop.example.com/register?ref=abc123",
		// Same members, different order: still the same set.
		Referrals: []models.TeamMember{
			member("u-5", "e"), member("u-4", "d"), member("u-3", "c"),
			member("u-2", "b"), member("u-1", "a"),
		},
	}

	got := ReconcileReferrals(info, overview)
	assert.Equal(t, info.Referrals, got.Referrals)
	assert.Equal(t, "abc123", got.ReferralCode)
}

func TestReconcileReferralsPrefersOverview(t *testing.T) {
	overview := Normalize(sampleOverview()).Overview
	info := models.ReferralInfo{
		ReferralCode: "abc123",
		Referrals:    []models.TeamMember{member("u-99", "stranger")},
	}

	got := ReconcileReferrals(info, overview)
	require.Len(t, got.Referrals, 5)
	assert.Equal(t, "u-1", got.Referrals[0].UserID)
	assert.Equal(t, "abc123", got.ReferralCode)
}
