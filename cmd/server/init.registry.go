package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"zeniverse_api/config"
	"zeniverse_api/internal/global"
)

func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections registers the owned collections by name.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	for _, name := range collectionNames() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if !registered {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}

// collection returns a registered collection, exiting when it is missing.
func collection(name string) *mongo.Collection {
	coll, err := global.RegistryCollections.Lookup(name)
	if err != nil {
		logrus.Fatalf("Collection %s is not registered: %v", name, err)
	}
	return coll
}
