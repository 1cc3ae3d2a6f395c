package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"zeniverse_api/config"
	authmodels "zeniverse_api/internal/api/auth/models"
	contentmodels "zeniverse_api/internal/api/content/models"
	inquirymodels "zeniverse_api/internal/api/inquiry/models"
	portfoliomodels "zeniverse_api/internal/api/portfolio/models"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/database"
	"zeniverse_api/internal/global"
)

// InitGlobal loads the config, the validator and the database handles.
func InitGlobal() {
	initConfig()
	initValidator()
	initDatabase_MongoDB()
}

func initConfig() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}
	global.MongoDB_ServerConfig = cfg
	common.SetExposeInternalErrors(!cfg.IsProduction())
	logrus.WithField("environment", cfg.Environment).Info("Initialized server config")
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// collectionNames lists every collection the API owns.
func collectionNames() []string {
	c := global.MongoDB_ColNames
	return []string{c.Admins, c.Contents, c.ContentManagements, c.ContactSocials, c.News, c.Initiatives, c.Ventures, c.Inquiries}
}

// initDatabase_MongoDB connects, creates missing collections and syncs the
// tag-declared indexes plus the optional publish slot indexes.
func initDatabase_MongoDB() {
	cfg := global.MongoDB_ServerConfig

	var err error
	global.MongoDB_Session, err = database.GetInstance(cfg)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	if err := database.EnsureCollections(ctx, db, collectionNames()); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	names := global.MongoDB_ColNames
	models := []struct {
		name  string
		model interface{}
	}{
		{names.Admins, authmodels.Admin{}},
		{names.Contents, contentmodels.Content{}},
		{names.ContentManagements, contentmodels.ContentManagement{}},
		{names.ContactSocials, contentmodels.ContactSocial{}},
		{names.News, portfoliomodels.News{}},
		{names.Initiatives, portfoliomodels.Initiative{}},
		{names.Ventures, portfoliomodels.Venture{}},
		{names.Inquiries, inquirymodels.Inquiry{}},
	}
	for _, m := range models {
		if err := database.CreateIndexes(ctx, db.Collection(m.name), m.model); err != nil {
			logrus.Fatalf("Failed to create indexes on %s: %v", m.name, err)
		}
	}

	slots := []struct {
		name      string
		slotField string
	}{
		{names.Contents, "type"},
		{names.ContentManagements, "type"},
		{names.ContactSocials, ""},
	}
	for _, s := range slots {
		if err := database.SyncPublishSlotIndex(ctx, db.Collection(s.name), s.slotField, cfg.PublishSlotIndex); err != nil {
			// existing duplicates block the index; the service level check still applies
			logrus.WithError(err).Errorf("Failed to sync publish slot index on %s", s.name)
		}
	}
	logrus.WithField("publish_slot_index", cfg.PublishSlotIndex).Info("Synced indexes")
}
