package team

import (
	"log"

	"mlm-storefront/models"
)

// Views are the three read-optimized projections of one team-overview
// payload: the dashboard summary, a one-level tree rooted at the current
// user, and a flat list for tabular rendering.
type Views struct {
	Overview Overview            `json:"overview"`
	Tree     Tree                `json:"tree"`
	List     []models.TeamMember `json:"list"`
}

type Overview struct {
	Summary    models.TeamSummary  `json:"summary"`
	DirectTeam []models.TeamMember `json:"directTeam"`
}

type Tree struct {
	TeamTree TeamTree `json:"teamTree"`
}

// TeamTree roots the rendered hierarchy at the current user. Each direct
// member carries a non-nil SubTeam so deeper levels can be grafted on later
// without reshaping.
type TeamTree struct {
	User RootUser            `json:"user"`
	Team []models.TeamMember `json:"team"`
}

type RootUser struct {
	Name string `json:"name"`
}

// Normalize reshapes a raw team overview into the three views in a single
// pass. It is pure: the input is never modified, there are no network calls,
// and running it twice on the same payload yields structurally equal output.
// Missing or malformed summary fields have already decoded to zero; the one
// derived field is IndirectReferrals, which is never negative.
func Normalize(data models.TeamOverview) Views {
	summary := data.Summary
	indirect := summary.TotalTeamMembers - summary.DirectReferrals
	if indirect < 0 {
		indirect = 0
	}
	summary.IndirectReferrals = indirect

	direct := append([]models.TeamMember(nil), data.DirectTeam...)

	branches := make([]models.TeamMember, len(data.DirectTeam))
	for i, m := range data.DirectTeam {
		m.SubTeam = []models.TeamMember{} // extension point for deeper levels
		branches[i] = m
	}

	return Views{
		Overview: Overview{Summary: summary, DirectTeam: direct},
		Tree: Tree{TeamTree: TeamTree{
			User: RootUser{Name: "You"},
			Team: branches,
		}},
		List: append([]models.TeamMember(nil), data.DirectTeam...),
	}
}

// Walk visits every member reachable through SubTeam links in depth-first
// order, direct referrals at depth 1. Levels deeper than maxDepth are
// skipped. The traversal keeps its own stack so a pathologically nested
// payload cannot overflow the call stack.
func Walk(members []models.TeamMember, maxDepth int, visit func(m models.TeamMember, depth int)) {
	if maxDepth < 1 || visit == nil {
		return
	}

	type frame struct {
		member models.TeamMember
		depth  int
	}
	stack := make([]frame, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		stack = append(stack, frame{members[i], 1})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f.member, f.depth)
		if f.depth >= maxDepth {
			continue
		}
		for i := len(f.member.SubTeam) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.member.SubTeam[i], f.depth + 1})
		}
	}
}

// ReconcileReferrals resolves the two backend sources that both claim to be
// the direct referral list. The team overview is authoritative: when the
// referral-info list names a different member set, it is replaced with the
// overview's and the divergence is logged once. Code and link are always
// kept from the referral info.
func ReconcileReferrals(info models.ReferralInfo, overview Overview) models.ReferralInfo {
	if sameMemberSet(info.Referrals, overview.DirectTeam) {
		return info
	}
	log.Printf("team: referral info lists %d direct referrals, team overview lists %d; using the overview",
		len(info.Referrals), len(overview.DirectTeam))
	info.Referrals = append([]models.TeamMember(nil), overview.DirectTeam...)
	return info
}

func sameMemberSet(a, b []models.TeamMember) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, m := range a {
		seen[m.UserID]++
	}
	for _, m := range b {
		if seen[m.UserID] == 0 {
			return false
		}
		seen[m.UserID]--
	}
	return true
}
