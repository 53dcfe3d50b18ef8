package database

import (
	"log"

	"github.com/nishmeets/research-digest/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultCategories is the reference data for the arXiv subject areas the
// digest covers. Seeded idempotently on startup; paper_count is left alone
// for existing rows because the ingestion transaction maintains it.
var defaultCategories = []models.Category{
	{Code: "cs.AI", Name: "Artificial Intelligence", Description: "Agents, knowledge representation, planning and general AI", Icon: "🤖"},
	{Code: "cs.LG", Name: "Machine Learning", Description: "Learning algorithms, theory and applications", Icon: "📈"},
	{Code: "cs.CV", Name: "Computer Vision", Description: "Image and video understanding", Icon: "👁️"},
	{Code: "cs.CL", Name: "Computation and Language", Description: "Natural language processing", Icon: "💬"},
	{Code: "cs.RO", Name: "Robotics", Description: "Robot perception, planning and control", Icon: "🦾"},
	{Code: "stat.ML", Name: "Statistics - Machine Learning", Description: "Statistical learning theory and methods", Icon: "📊"},
}

// SeedCategories inserts the category reference rows, skipping codes that
// already exist.
func SeedCategories(db *gorm.DB) error {
	for _, c := range defaultCategories {
		category := c
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@researchdigest.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("dev-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        "dev@researchdigest.local",
		PasswordHash: string(hash),
		FullName:     "Dev User",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	// A bookmark and an explanation need a paper to hang off; only create
	// them if ingestion has already run at least once.
	var paper models.Paper
	if err := db.Order("id").First(&paper).Error; err != nil {
		log.Println("Seeded dev data: 1 user (no papers yet, skipping bookmark/explanation)")
		return nil
	}

	bookmark := models.Bookmark{
		UserID:  user.ID,
		PaperID: paper.ID,
		Folder:  "to-read",
		Notes:   "Seeded for development",
	}
	if err := db.Create(&bookmark).Error; err != nil {
		return err
	}

	explanation := models.Explanation{
		PaperID: paper.ID,
		UserID:  &user.ID,
		Mode:    models.ExplanationModeSimple,
		Content: "Seeded placeholder explanation.",
	}
	if err := db.Create(&explanation).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 1 user, 1 bookmark, 1 explanation")
	return nil
}
