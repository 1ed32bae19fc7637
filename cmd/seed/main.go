package main

import (
	"fmt"
	"os"
	"time"

	"github.com/communityspring/volunteer-api-go/pkg/config"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/joho/godotenv"
)

// Seeds a local database with a demo program, its workshops and
// opportunities, and one volunteer, so the API can be exercised without a
// Salesforce connection.
func main() {
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	db := database.InitDB(cfg.DatabaseURL, cfg.SQLitePath)

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 2, 0)
	program := database.Program{
		Name:            "Money Matters Spring Cohort",
		Description:     "Eight-week financial literacy program",
		SalesforceID:    "seed-program-1",
		Status:          database.ProgramUpcoming,
		Format:          "virtual",
		StartDate:       &start,
		EndDate:         &end,
		WorkshopDay:     "Tuesday",
		WorkshopTime:    "18:00",
		WorkshopCount:   3,
		NumberOfCoaches: 4,
	}
	if err := db.Where("salesforce_id = ?", program.SalesforceID).
		FirstOrCreate(&program).Error; err != nil {
		fmt.Printf("Error seeding program: %v\n", err)
		os.Exit(1)
	}

	topics := []string{"Budgeting Basics", "Credit and Debt", "Saving and Investing"}
	for i, topic := range topics {
		date := start.AddDate(0, 0, 7*i)
		ws := database.Workshop{
			ProgramID:       program.ID,
			SalesforceID:    fmt.Sprintf("seed-workshop-%d", i+1),
			Topic:           topic,
			Format:          "virtual",
			Date:            &date,
			StartTime:       "18:00",
			EndTime:         "19:30",
			MaxParticipants: 25,
		}
		if err := db.Where("salesforce_id = ?", ws.SalesforceID).
			FirstOrCreate(&ws).Error; err != nil {
			fmt.Printf("Error seeding workshop: %v\n", err)
			os.Exit(1)
		}

		opp := database.Opportunity{
			Title:      fmt.Sprintf("Present: %s", topic),
			Category:   "Workshop Presenting",
			ProgramID:  &program.ID,
			WorkshopID: &ws.ID,
			Date:       &date,
			TotalSpots: cfg.Engine.PresenterSpots,
		}
		if err := db.Where("workshop_id = ? AND category = ?", ws.ID, opp.Category).
			FirstOrCreate(&opp).Error; err != nil {
			fmt.Printf("Error seeding opportunity: %v\n", err)
			os.Exit(1)
		}
	}

	coach := database.Opportunity{
		Title:      fmt.Sprintf("%s Coach", program.Name),
		Category:   "Financial Coaching",
		ProgramID:  &program.ID,
		Date:       &start,
		TotalSpots: program.NumberOfCoaches,
	}
	if err := db.Where("program_id = ? AND category = ?", program.ID, coach.Category).
		FirstOrCreate(&coach).Error; err != nil {
		fmt.Printf("Error seeding coach opportunity: %v\n", err)
		os.Exit(1)
	}

	volunteer := database.Volunteer{
		Email:     "demo.volunteer@example.org",
		FirstName: "Demo",
		LastName:  "Volunteer",
		Status:    database.VolunteerActive,
	}
	if err := db.Where("email = ?", volunteer.Email).
		FirstOrCreate(&volunteer).Error; err != nil {
		fmt.Printf("Error seeding volunteer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded program %d with %d workshops, volunteer %d\n",
		program.ID, len(topics), volunteer.ID)
}
