package models

// TeamSummary carries the headline counters shown on the team dashboard.
// IndirectReferrals is derived client-side (total minus direct, never
// negative); the other fields come straight from the backend and default to
// 0 when absent or malformed.
type TeamSummary struct {
	TotalTeamMembers  Count `json:"totalTeamMembers"`
	DirectReferrals   Count `json:"directReferrals"`
	IndirectReferrals Count `json:"indirectReferrals"`
	TeamDepth         Count `json:"teamDepth"`
}

// TeamMember is one node in the referral downline. SubTeam holds the next
// level down when the backend includes it; depth is bounded by the summary's
// TeamDepth. CreatedAt stays an opaque string so an unexpected timestamp
// format cannot fail the whole payload.
type TeamMember struct {
	UserID        string       `json:"userId"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	ReferralCount Count        `json:"referralCount"`
	CreatedAt     string       `json:"createdAt,omitempty"`
	SubTeam       []TeamMember `json:"subTeam,omitempty"`
}

// TeamOverview is the raw GET /team/overview payload.
type TeamOverview struct {
	Summary    TeamSummary  `json:"summary"`
	DirectTeam []TeamMember `json:"directTeam"`
}

// ReferralInfo is the GET /referral/info payload. The backend calls the
// member list directTeam; the client exposes it as Referrals.
type ReferralInfo struct {
	ReferralCode string       `json:"referralCode"`
	ReferralLink string       `json:"referralLink"`
	Referrals    []TeamMember `json:"directTeam"`
}

// ReferralAnalytics is the GET /referral/analytics payload.
type ReferralAnalytics struct {
	TeamStats TeamStats `json:"teamStats"`
}

type TeamStats struct {
	DirectReferrals Count `json:"directReferrals"`
}

// TotalReferrals is the single number the analytics card renders.
func (a ReferralAnalytics) TotalReferrals() int {
	return int(a.TeamStats.DirectReferrals)
}
