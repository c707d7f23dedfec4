package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"mlm-storefront/middleware"
	"mlm-storefront/models"
	"mlm-storefront/team"
	"mlm-storefront/utils"
)

// referralLinkBase is where issued referral links point.
const referralLinkBase = "https://shop.example.com/register?ref="

// account is a seeded backend user with its credentials.
type account struct {
	User         models.User
	PasswordHash []byte
}

// Server is an in-memory stand-in for the production backend. It speaks the
// HTTP contract the client consumes, seeded with demo accounts, a small
// catalog and a two-level referral team, so the client core can be run and
// integration-tested without the real service.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	products []models.Product
	teams    map[string][]models.TeamMember // user ID -> direct referrals
}

// New builds a server seeded with demo data. The demo login is
// ayesha@example.com / password123.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		teams:    make(map[string][]models.TeamMember),
	}
	s.seed()
	return s
}

func shortCode() string {
	return uuid.NewString()[:8]
}

func joined(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func (s *Server) seed() {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	owner := models.User{
		ID:           "u-1000",
		Username:     "ayesha",
		Name:         "Ayesha Khan",
		Email:        "ayesha@example.com",
		Role:         "user",
		ReferralCode: shortCode(),
	}
	s.accounts[owner.Email] = &account{User: owner, PasswordHash: hash}

	// Five direct referrals; two of them have downlines of their own, for a
	// total of twelve members across two levels.
	s.teams[owner.ID] = []models.TeamMember{
		{UserID: "u-1001", Name: "Bilal Ahmed", Email: "bilal@example.com", ReferralCount: 3, CreatedAt: joined(40), SubTeam: []models.TeamMember{
			{UserID: "u-2001", Name: "Sana Tariq", Email: "sana@example.com", ReferralCount: 0, CreatedAt: joined(30)},
			{UserID: "u-2002", Name: "Hamza Riaz", Email: "hamza@example.com", ReferralCount: 0, CreatedAt: joined(28)},
			{UserID: "u-2003", Name: "Nida Aslam", Email: "nida@example.com", ReferralCount: 0, CreatedAt: joined(21)},
		}},
		{UserID: "u-1002", Name: "Fatima Noor", Email: "fatima@example.com", ReferralCount: 4, CreatedAt: joined(35), SubTeam: []models.TeamMember{
			{UserID: "u-2004", Name: "Usman Shah", Email: "usman@example.com", ReferralCount: 0, CreatedAt: joined(25)},
			{UserID: "u-2005", Name: "Mariam Javed", Email: "mariam@example.com", ReferralCount: 0, CreatedAt: joined(20)},
			{UserID: "u-2006", Name: "Adeel Qureshi", Email: "adeel@example.com", ReferralCount: 0, CreatedAt: joined(14)},
			{UserID: "u-2007", Name: "Rabia Malik", Email: "rabia@example.com", ReferralCount: 0, CreatedAt: joined(7)},
		}},
		{UserID: "u-1003", Name: "Imran Saleem", Email: "imran@example.com", ReferralCount: 0, CreatedAt: joined(18)},
		{UserID: "u-1004", Name: "Zara Hussain", Email: "zara@example.com", ReferralCount: 0, CreatedAt: joined(10)},
		{UserID: "u-1005", Name: "Kamran Ali", Email: "kamran@example.com", ReferralCount: 0, CreatedAt: joined(3)},
	}

	s.products = []models.Product{
		{ID: "p-100", Name: "Herbal Green Tea", Description: "Loose-leaf green tea, 250g", Price: 1200, Stock: 40, Category: "Wellness"},
		{ID: "p-101", Name: "Aloe Vera Gel", Description: "Pure aloe gel, 200ml", Price: 850, Stock: 25, Category: "Skincare"},
		{ID: "p-102", Name: "Multivitamin Pack", Description: "30-day supply", Price: 2400, Stock: 60, Category: "Wellness"},
		{ID: "p-103", Name: "Protein Shake Mix", Description: "Vanilla, 1kg", Price: 3900, Stock: 15, Category: "Nutrition"},
	}
}

// Router wires the HTTP contract: public auth and catalog routes, then
// bearer-protected profile and team routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/login", s.handleLogin).Methods("POST")
	router.HandleFunc("/product", s.handleProducts).Methods("GET")
	router.HandleFunc("/product/{id}", s.handleProduct).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/users/me", s.handleProfile).Methods("GET")
	protected.HandleFunc("/team/overview", s.handleTeamOverview).Methods("GET")
	protected.HandleFunc("/referral/info", s.handleReferralInfo).Methods("GET")
	protected.HandleFunc("/referral/analytics", s.handleReferralAnalytics).Methods("GET")

	return router
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(creds.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := utils.GenerateJWT(acct.User.ID, acct.User.Username, acct.User.Email, acct.User.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := append([]models.Product(nil), s.products...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) account(r *http.Request) (*account, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[claims.Email]
	return acct, ok
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.account(r)
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": acct.User})
}

func (s *Server) directTeam(userID string) []models.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TeamMember(nil), s.teams[userID]...)
}

// teamStats walks the full downline to produce the summary counters.
func teamStats(members []models.TeamMember) (total, depth int) {
	team.Walk(members, 32, func(_ models.TeamMember, d int) {
		total++
		if d > depth {
			depth = d
		}
	})
	return total, depth
}

func (s *Server) handleTeamOverview(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.account(r)
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	direct := s.directTeam(acct.User.ID)
	total, depth := teamStats(direct)
	respondJSON(w, http.StatusOK, models.TeamOverview{
		Summary: models.TeamSummary{
			TotalTeamMembers: models.Count(total),
			DirectReferrals:  models.Count(len(direct)),
			TeamDepth:        models.Count(depth),
		},
		DirectTeam: direct,
	})
}

func (s *Server) handleReferralInfo(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.account(r)
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, models.ReferralInfo{
		ReferralCode: acct.User.ReferralCode,
		ReferralLink: fmt.Sprintf("%s%s", referralLinkBase, acct.User.ReferralCode),
		Referrals:    s.directTeam(acct.User.ID),
	})
}

func (s *Server) handleReferralAnalytics(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.account(r)
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	direct := s.directTeam(acct.User.ID)
	respondJSON(w, http.StatusOK, models.ReferralAnalytics{
		TeamStats: models.TeamStats{DirectReferrals: models.Count(len(direct))},
	})
}
