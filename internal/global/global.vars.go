package global

import (
	"zeniverse_api/config"
	"zeniverse_api/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName lists the collections the API owns.
type MongoDB_CollectionName struct {
	Admins             string
	Contents           string
	ContentManagements string
	ContactSocials     string
	News               string
	Initiatives        string
	Ventures           string
	Inquiries          string
}

// DefaultCollectionNames returns the production collection names.
func DefaultCollectionNames() MongoDB_CollectionName {
	return MongoDB_CollectionName{
		Admins:             "admins",
		Contents:           "contents",
		ContentManagements: "content_managements",
		ContactSocials:     "contact_socials",
		News:               "news",
		Initiatives:        "initiatives",
		Ventures:           "ventures",
		Inquiries:          "inquiries",
	}
}

// Process wide handles set once during startup. Domain services receive their
// collections through constructors; these exist for bootstrap and health checks.
var (
	Validate             *validator.Validate
	MongoDB_Session      *mongo.Client
	MongoDB_ServerConfig *config.Configuration
	MongoDB_ColNames     = DefaultCollectionNames()

	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)
