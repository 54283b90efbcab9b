// cmd/json-importer - Bulk content import from a JSON seed file
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"oraculo/database"
	"oraculo/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedFile is the import document layout. Every section is optional;
// existing rows matched by their natural key are skipped, not updated.
type SeedFile struct {
	Levels []struct {
		Name      string `json:"name"`
		MinPoints int    `json:"min_points"`
		Icon      string `json:"icon"`
		Color     string `json:"color"`
	} `json:"levels"`
	Achievements []struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Icon         string `json:"icon"`
		TriggerType  string `json:"trigger_type"`
		TriggerValue int    `json:"trigger_value"`
	} `json:"achievements"`
	Challenges []struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		ExpectedAnswer string `json:"expected_answer"`
		ChallengeType  string `json:"challenge_type"`
		PointsReward   int    `json:"points_reward"`
		LevelRequired  string `json:"level_required"`
		Hint           string `json:"hint"`
		HintCost       int    `json:"hint_cost"`
	} `json:"challenges"`
	Paths []struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		RewardPoints int      `json:"reward_points"`
		Challenges   []string `json:"challenges"` // challenge titles, in step order
	} `json:"paths"`
	FAQs []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Category string `json:"category"`
		Keywords string `json:"keywords"`
	} `json:"faqs"`
}

func main() {
	var path string
	flag.StringVar(&path, "file", "./seed/content.json", "path to the JSON seed file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	if err := importSeed(db, &seed); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Println("✅ Import completed")
}

func importSeed(db *gorm.DB, seed *SeedFile) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, l := range seed.Levels {
			level := models.Level{
				Name:      l.Name,
				MinPoints: l.MinPoints,
				Icon:      l.Icon,
				Color:     l.Color,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&level).Error; err != nil {
				return fmt.Errorf("level %q: %w", l.Name, err)
			}
		}
		log.Printf("Levels: %d processed", len(seed.Levels))

		for _, a := range seed.Achievements {
			achievement := models.Achievement{
				Name:         a.Name,
				Description:  a.Description,
				Icon:         a.Icon,
				TriggerType:  a.TriggerType,
				TriggerValue: a.TriggerValue,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&achievement).Error; err != nil {
				return fmt.Errorf("achievement %q: %w", a.Name, err)
			}
		}
		log.Printf("Achievements: %d processed", len(seed.Achievements))

		challengeIDs := make(map[string]uint)
		for _, ch := range seed.Challenges {
			var existing models.Challenge
			err := tx.Where("title = ?", ch.Title).First(&existing).Error
			if err == nil {
				challengeIDs[ch.Title] = existing.ID
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("challenge %q: %w", ch.Title, err)
			}

			challenge := models.Challenge{
				Title:          ch.Title,
				Description:    ch.Description,
				ExpectedAnswer: ch.ExpectedAnswer,
				ChallengeType:  ch.ChallengeType,
				PointsReward:   ch.PointsReward,
				LevelRequired:  ch.LevelRequired,
				Hint:           ch.Hint,
				HintCost:       ch.HintCost,
			}
			if challenge.ChallengeType == "" {
				challenge.ChallengeType = models.ChallengeTypeText
			}
			if err := tx.Create(&challenge).Error; err != nil {
				return fmt.Errorf("challenge %q: %w", ch.Title, err)
			}
			challengeIDs[ch.Title] = challenge.ID
		}
		log.Printf("Challenges: %d processed", len(seed.Challenges))

		for _, p := range seed.Paths {
			var count int64
			if err := tx.Model(&models.LearningPath{}).
				Where("name = ?", p.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			path := models.LearningPath{
				Name:         p.Name,
				Description:  p.Description,
				RewardPoints: p.RewardPoints,
				IsActive:     true,
			}
			if err := tx.Create(&path).Error; err != nil {
				return fmt.Errorf("path %q: %w", p.Name, err)
			}
			for i, title := range p.Challenges {
				id, ok := challengeIDs[title]
				if !ok {
					var existing models.Challenge
					if err := tx.Where("title = ?", title).First(&existing).Error; err != nil {
						return fmt.Errorf("path %q references unknown challenge %q", p.Name, title)
					}
					id = existing.ID
				}
				member := models.PathChallenge{PathID: path.ID, ChallengeID: id, Step: i + 1}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
			}
		}
		log.Printf("Paths: %d processed", len(seed.Paths))

		for _, f := range seed.FAQs {
			var count int64
			if err := tx.Model(&models.FAQ{}).
				Where("question = ?", f.Question).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			faq := models.FAQ{
				Question: f.Question,
				Answer:   f.Answer,
				Category: f.Category,
				Keywords: f.Keywords,
			}
			if err := tx.Create(&faq).Error; err != nil {
				return fmt.Errorf("faq %q: %w", f.Question, err)
			}
		}
		log.Printf("FAQs: %d processed", len(seed.FAQs))

		return nil
	})
}
