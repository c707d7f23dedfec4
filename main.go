// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"mlm-storefront/api"
	"mlm-storefront/collections"
	"mlm-storefront/config"
	"mlm-storefront/devserver"
	"mlm-storefront/models"
	"mlm-storefront/session"
	"mlm-storefront/team"
	"mlm-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg := config.FromEnv()
	utils.JwtKey = []byte(cfg.JWTSecret)

	// "serve" runs the stub backend instead of the dashboard client.
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		server := devserver.New()
		fmt.Printf("Dev backend is running on port %s\n", cfg.Port)
		log.Fatal(http.ListenAndServe(":"+cfg.Port, server.Router()))
	}

	store, err := cfg.OpenStore()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess := session.NewManager(ctx, store)
	client := api.NewClient(cfg.APIBaseURL)
	if token := sess.Token(); token != "" {
		client.SetToken(token)
	}

	// Fresh credentials replace any persisted session.
	if email := os.Getenv("LOGIN_EMAIL"); email != "" {
		token, err := client.Login(ctx, email, os.Getenv("LOGIN_PASSWORD"))
		if err != nil {
			log.Fatal(err)
		}
		sess.SetToken(ctx, token)
	}

	userID := sess.UserID()
	if userID == "" {
		log.Fatal("Not logged in. Set LOGIN_EMAIL and LOGIN_PASSWORD.")
	}

	cols := collections.NewManager(store)
	cols.SetUser(ctx, userID)

	products, err := client.FetchProducts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Catalog: %d products\n", len(products))
	fmt.Printf("Cart: %d items, total %.2f | Wishlist: %d items\n",
		cols.CartCount(), cols.CalculateTotal(), cols.WishlistCount())

	overview, err := client.FetchTeamOverview(ctx)
	if err != nil {
		log.Fatal(err)
	}
	views := team.Normalize(overview)
	summary := views.Overview.Summary
	fmt.Printf("Team: %d total, %d direct, %d indirect, depth %d\n",
		summary.TotalTeamMembers, summary.DirectReferrals, summary.IndirectReferrals, summary.TeamDepth)

	info, err := client.FetchReferralInfo(ctx)
	if err != nil {
		log.Fatal(err)
	}
	info = team.ReconcileReferrals(info, views.Overview)
	fmt.Printf("Referral link: %s\n", info.ReferralLink)

	fmt.Println(views.Tree.TeamTree.User.Name)
	team.Walk(overview.DirectTeam, int(summary.TeamDepth), func(m models.TeamMember, depth int) {
		fmt.Printf("%*s- %s (%d referrals)\n", depth*2, "", m.Name, m.ReferralCount)
	})
}
