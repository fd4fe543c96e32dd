package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	badgeService "kelana.id/travelapp/internal/modules/badge/service"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Profile{},
		&entity.Destination{},
		&entity.Trip{},
		&entity.Expense{},
		&entity.JournalEntry{},
		&entity.Photo{},
		&entity.PhotoLike{},
		&entity.PhotoComment{},
		&entity.Badge{},
		&entity.UserBadge{},
		&entity.Notification{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{Name: entity.RoleAdmin, Description: "Super administrator"},
		{Name: entity.RoleTraveler, Description: "Traveler"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@kelana.id").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        "admin@kelana.id",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	adminProfile := entity.Profile{
		UserID:      adminUser.ID,
		DisplayName: "Administrator",
	}

	if err := db.Create(&adminProfile).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@kelana.id")
	log.Println("   Password: admin123")

	return nil
}

// SeedBadges inserts the badge catalog. Existing rows are left untouched so
// an admin can tune thresholds without the seed resetting them on restart.
func SeedBadges(db *gorm.DB) error {
	badges := []entity.Badge{
		{
			Code:        badgeService.BadgeFirstTrip,
			Name:        "First Trip",
			Description: "Complete your first trip",
			Category:    entity.BadgeCategoryTravelMilestone,
			Rarity:      entity.BadgeRarityCommon,
			Points:      10,
			Criteria:    entity.Criteria{"completedTrips": 1},
		},
		{
			Code:        badgeService.BadgeGlobetrotter,
			Name:        "Globetrotter",
			Description: "Complete 5 trips",
			Category:    entity.BadgeCategoryTravelMilestone,
			Rarity:      entity.BadgeRarityRare,
			Points:      25,
			Criteria:    entity.Criteria{"completedTrips": 5},
		},
		{
			Code:        badgeService.BadgeRoadWarrior,
			Name:        "Road Warrior",
			Description: "Complete 20 trips",
			Category:    entity.BadgeCategoryTravelMilestone,
			Rarity:      entity.BadgeRarityEpic,
			Points:      75,
			Criteria:    entity.Criteria{"completedTrips": 20},
		},
		{
			Code:        badgeService.BadgeCountryCollector,
			Name:        "Country Collector",
			Description: "Visit 5 different countries",
			Category:    entity.BadgeCategoryTravelMilestone,
			Rarity:      entity.BadgeRarityRare,
			Points:      30,
			Criteria:    entity.Criteria{"distinctCountries": 5},
		},
		{
			Code:        badgeService.BadgeWorldWanderer,
			Name:        "World Wanderer",
			Description: "Visit 15 different countries",
			Category:    entity.BadgeCategoryTravelMilestone,
			Rarity:      entity.BadgeRarityLegendary,
			Points:      100,
			Criteria:    entity.Criteria{"distinctCountries": 15},
		},
		{
			Code:        badgeService.BadgeOpenRoad,
			Name:        "Open Road",
			Description: "Share 3 public trips",
			Category:    entity.BadgeCategorySocialEngagement,
			Rarity:      entity.BadgeRarityCommon,
			Points:      15,
			Criteria:    entity.Criteria{"publicTrips": 3},
		},
		{
			Code:        badgeService.BadgeSocialButterfly,
			Name:        "Social Butterfly",
			Description: "Share 3 public trips and collect 25 photo likes",
			Category:    entity.BadgeCategorySocialEngagement,
			Rarity:      entity.BadgeRarityRare,
			Points:      35,
			Criteria:    entity.Criteria{"publicTrips": 3, "photoLikes": 25},
		},
		{
			Code:        badgeService.BadgeCrowdFavorite,
			Name:        "Crowd Favorite",
			Description: "Collect 100 likes on your photos",
			Category:    entity.BadgeCategorySocialEngagement,
			Rarity:      entity.BadgeRarityEpic,
			Points:      60,
			Criteria:    entity.Criteria{"photoLikes": 100},
		},
		{
			Code:        badgeService.BadgeConversationStarter,
			Name:        "Conversation Starter",
			Description: "Receive 50 comments on your photos",
			Category:    entity.BadgeCategorySocialEngagement,
			Rarity:      entity.BadgeRarityRare,
			Points:      40,
			Criteria:    entity.Criteria{"photoComments": 50},
		},
		{
			Code:        badgeService.BadgeBudgetMaster,
			Name:        "Budget Master",
			Description: "Finish 3 trips at or under budget",
			Category:    entity.BadgeCategoryFinancialPlanning,
			Rarity:      entity.BadgeRarityRare,
			Points:      30,
			Criteria:    entity.Criteria{"budgetTrips": 3},
		},
		{
			Code:        badgeService.BadgeSuperSaver,
			Name:        "Super Saver",
			Description: "Save a total of 1000 across budgeted trips",
			Category:    entity.BadgeCategoryFinancialPlanning,
			Rarity:      entity.BadgeRarityEpic,
			Points:      50,
			Criteria:    entity.Criteria{"totalSaved": 1000},
		},
		{
			Code:        badgeService.BadgeFirstStory,
			Name:        "First Story",
			Description: "Write your first journal entry",
			Category:    entity.BadgeCategoryContentCreation,
			Rarity:      entity.BadgeRarityCommon,
			Points:      10,
			Criteria:    entity.Criteria{"journalEntries": 1},
		},
		{
			Code:        badgeService.BadgeStoryteller,
			Name:        "Storyteller",
			Description: "Write 10 journal entries",
			Category:    entity.BadgeCategoryContentCreation,
			Rarity:      entity.BadgeRarityRare,
			Points:      30,
			Criteria:    entity.Criteria{"journalEntries": 10},
		},
		{
			Code:        badgeService.BadgeShutterbug,
			Name:        "Shutterbug",
			Description: "Upload 50 photos",
			Category:    entity.BadgeCategoryContentCreation,
			Rarity:      entity.BadgeRarityEpic,
			Points:      45,
			Criteria:    entity.Criteria{"photos": 50},
		},
	}

	for _, badge := range badges {
		var count int64
		if err := db.Model(&entity.Badge{}).
			Where("code = ?", badge.Code).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			badge.IsActive = true
			if err := db.Create(&badge).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
