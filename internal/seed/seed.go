// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Idempotent: skip when the demo user already exists
	existing, _ := repos.UserRepo.FindByEmail(ctx, "nora.lindqvist@ledgerline.dev")
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Nora founds the organization and administers it
	nora := &repository.User{
		Email:    "nora.lindqvist@ledgerline.dev",
		Password: string(password),
		Name:     "Nora Lindqvist",
	}
	repos.UserRepo.Create(ctx, nora)

	// Tomas joins as a regular member
	tomas := &repository.User{
		Email:    "tomas.berg@ledgerline.dev",
		Password: string(password),
		Name:     "Tomas Berg",
	}
	repos.UserRepo.Create(ctx, tomas)

	log.Printf("✅ Created 2 users: Nora (admin), Tomas (member)")

	org := &repository.Organization{
		Name:        "Fjord Studio",
		CreatedByID: nora.ID,
	}
	adminMembership := &repository.Membership{
		UserID: nora.ID,
		Role:   types.RoleAdmin,
	}
	repos.OrganizationRepo.CreateWithAdmin(ctx, org, adminMembership)

	// Tomas comes in through the invitation flow so the seed exercises it
	invitation := &repository.Invitation{
		OrganizationID: org.ID,
		Email:          tomas.Email,
		Role:           types.RoleMember,
		Token:          "seed-invitation-token",
		InvitedByID:    nora.ID,
		ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
	}
	repos.InvitationRepo.Issue(ctx, invitation)
	repos.InvitationRepo.Accept(ctx, invitation, tomas.ID)

	log.Printf("✅ Created organization: Fjord Studio (Nora admin, Tomas member)")

	categories := []struct {
		name, description string
	}{
		{"Travel", "Flights, trains and mileage"},
		{"Meals", "Team lunches and client dinners"},
		{"Software", "Licenses and subscriptions"},
	}
	categoryIDs := make(map[string]string)
	for _, c := range categories {
		desc := c.description
		cat := &repository.ExpenseCategory{
			OrganizationID: org.ID,
			Name:           c.name,
			Description:    &desc,
		}
		repos.CategoryRepo.Create(ctx, cat)
		categoryIDs[c.name] = cat.ID
	}

	log.Printf("✅ Created %d expense categories", len(categories))

	travelID := categoryIDs["Travel"]
	mealsID := categoryIDs["Meals"]
	expenses := []*repository.Expense{
		{
			OrganizationID: org.ID,
			CategoryID:     &travelID,
			Description:    "Train to client workshop",
			Amount:         decimal.NewFromFloat(84.50),
			SpentAt:        time.Now().AddDate(0, 0, -3),
			CreatedByID:    nora.ID,
		},
		{
			OrganizationID: org.ID,
			CategoryID:     &mealsID,
			Description:    "Sprint kickoff lunch",
			Amount:         decimal.NewFromFloat(132.00),
			SpentAt:        time.Now().AddDate(0, 0, -1),
			CreatedByID:    tomas.ID,
		},
	}
	for _, e := range expenses {
		repos.ExpenseRepo.Create(ctx, e)
	}

	log.Printf("✅ Created %d expenses", len(expenses))
	log.Println("[Seed] Done")
}
