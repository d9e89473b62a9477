package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"channel-radio/internal/models"
	"channel-radio/internal/schedule"
)

// SeedAdminUser creates the default admin account on first boot.
// Change the password immediately on a real deployment.
func SeedAdminUser(db *gorm.DB) {
	var count int64
	db.Model(&models.Users{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("channel-admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("⚠️ Could not hash default admin password: %v", err)
		return
	}

	admin := models.Users{
		Username:     "admin",
		PasswordHash: string(hash),
		DisplayName:  "Station Admin",
		Role:         "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("⚠️ Could not seed admin user: %v", err)
		return
	}
	log.Println("🌱 Seeded default admin user (username: admin)")
}

// SeedWeekFromTemplate populates an empty calendar week from the station's
// grid template. Shows are upserted by name+start so a restart never
// duplicates the grid.
func SeedWeekFromTemplate(db *gorm.DB, tpl *schedule.GridTemplate, week schedule.Week) {
	shows := tpl.Materialize(week)
	if len(shows) == 0 {
		return
	}

	log.Printf("🌱 Seeding %d template shows for week of %s...", len(shows), week.Start.Format("2006-01-02"))
	for _, s := range shows {
		// Upsert by name+start so a restart never duplicates the grid and
		// never clobbers edits made since seeding.
		var count int64
		db.Model(&models.Show{}).
			Where("name = ? AND start_time = ?", s.Name, s.StartTime).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&s).Error; err != nil {
			log.Printf("⚠️ Could not seed show %q: %v", s.Name, err)
		}
	}
}
