package devserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlm-storefront/api"
	"mlm-storefront/devserver"
	"mlm-storefront/models"
	"mlm-storefront/team"
)

func startServer(t *testing.T) *api.Client {
	t.Helper()
	ts := httptest.NewServer(devserver.New().Router())
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL)
}

func login(t *testing.T, client *api.Client) {
	t.Helper()
	_, err := client.Login(context.Background(), "ayesha@example.com", "password123")
	require.NoError(t, err)
}

func TestLoginAndProfile(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.Login(ctx, "ayesha@example.com", "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	login(t, client)
	user, err := client.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1000", user.ID)
	assert.Equal(t, "ayesha@example.com", user.Email)
	assert.NotEmpty(t, user.ReferralCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	client := startServer(t)

	_, err := client.FetchTeamOverview(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCatalog(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	products, err := client.FetchProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	product, err := client.FetchProduct(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, products[0].Name, product.Name)

	_, err = client.FetchProduct(ctx, "nope")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestTeamOverviewNormalizesConsistently(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()
	login(t, client)

	overview, err := client.FetchTeamOverview(ctx)
	require.NoError(t, err)

	views := team.Normalize(overview)
	summary := views.Overview.Summary

	// The summary counters and the member list must describe the same team.
	assert.Equal(t, int(summary.DirectReferrals), len(views.List))
	assert.Equal(t, len(views.List), len(views.Tree.TeamTree.Team))
	assert.Equal(t, summary.TotalTeamMembers-summary.DirectReferrals, summary.IndirectReferrals)
}

func TestTeamCountersMatchWalk(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()
	login(t, client)

	overview, err := client.FetchTeamOverview(ctx)
	require.NoError(t, err)

	total := 0
	maxDepth := 0
	team.Walk(overview.DirectTeam, 32, func(_ models.TeamMember, depth int) {
		total++
		if depth > maxDepth {
			maxDepth = depth
		}
	})
	assert.Equal(t, int(overview.Summary.TotalTeamMembers), total)
	assert.Equal(t, int(overview.Summary.TeamDepth), maxDepth)
}

func TestReferralEndpointsAgree(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()
	login(t, client)

	overview, err := client.FetchTeamOverview(ctx)
	require.NoError(t, err)
	views := team.Normalize(overview)

	info, err := client.FetchReferralInfo(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.ReferralCode)
	assert.Contains(t, info.ReferralLink, info.ReferralCode)

	// Both endpoints report the same direct referral set, so reconciliation
	// keeps the original list.
	reconciled := team.ReconcileReferrals(info, views.Overview)
	assert.Equal(t, info.Referrals, reconciled.Referrals)

	analytics, err := client.FetchReferralAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int(views.Overview.Summary.DirectReferrals), analytics.TotalReferrals())
}
