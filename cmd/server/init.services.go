package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"zeniverse_api/config"
	authhdl "zeniverse_api/internal/api/auth/handler"
	authmodels "zeniverse_api/internal/api/auth/models"
	authrouter "zeniverse_api/internal/api/auth/router"
	authsvc "zeniverse_api/internal/api/auth/service"
	basehdl "zeniverse_api/internal/api/base/handler"
	basesvc "zeniverse_api/internal/api/base/service"
	contenthdl "zeniverse_api/internal/api/content/handler"
	contentmodels "zeniverse_api/internal/api/content/models"
	contentrouter "zeniverse_api/internal/api/content/router"
	contentsvc "zeniverse_api/internal/api/content/service"
	"zeniverse_api/internal/api/events"
	inquiryhdl "zeniverse_api/internal/api/inquiry/handler"
	inquirymodels "zeniverse_api/internal/api/inquiry/models"
	inquiryrouter "zeniverse_api/internal/api/inquiry/router"
	inquirysvc "zeniverse_api/internal/api/inquiry/service"
	mediahdl "zeniverse_api/internal/api/media/handler"
	mediarouter "zeniverse_api/internal/api/media/router"
	mediasvc "zeniverse_api/internal/api/media/service"
	portfoliohdl "zeniverse_api/internal/api/portfolio/handler"
	portfoliomodels "zeniverse_api/internal/api/portfolio/models"
	portfoliorouter "zeniverse_api/internal/api/portfolio/router"
	portfoliosvc "zeniverse_api/internal/api/portfolio/service"
	apirouter "zeniverse_api/internal/api/router"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/mailer"
)

// Stores is one store per owned collection.
type Stores struct {
	Admins             basesvc.BaseServiceMongo[authmodels.Admin]
	Contents           basesvc.BaseServiceMongo[contentmodels.Content]
	ContentManagements basesvc.BaseServiceMongo[contentmodels.ContentManagement]
	ContactSocials     basesvc.BaseServiceMongo[contentmodels.ContactSocial]
	News               basesvc.BaseServiceMongo[portfoliomodels.News]
	Initiatives        basesvc.BaseServiceMongo[portfoliomodels.Initiative]
	Ventures           basesvc.BaseServiceMongo[portfoliomodels.Venture]
	Inquiries          basesvc.BaseServiceMongo[inquirymodels.Inquiry]
}

// App holds what main needs after wiring.
type App struct {
	Bus     *events.Bus
	Admins  *authsvc.AdminService
	Options apirouter.Options
	Routes  []apirouter.RegisterFunc
}

// InitServices wires the services on the registered Mongo collections.
func InitServices() *App {
	names := global.MongoDB_ColNames
	bus := events.NewBus()
	bus.OnDataChanged(events.AuditTrail(logger.GetAuditLogger()))

	stores := Stores{
		Admins:             basesvc.NewBaseServiceMongo[authmodels.Admin](collection(names.Admins), bus),
		Contents:           basesvc.NewBaseServiceMongo[contentmodels.Content](collection(names.Contents), bus),
		ContentManagements: basesvc.NewBaseServiceMongo[contentmodels.ContentManagement](collection(names.ContentManagements), bus),
		ContactSocials:     basesvc.NewBaseServiceMongo[contentmodels.ContactSocial](collection(names.ContactSocials), bus),
		News:               basesvc.NewBaseServiceMongo[portfoliomodels.News](collection(names.News), bus),
		Initiatives:        basesvc.NewBaseServiceMongo[portfoliomodels.Initiative](collection(names.Initiatives), bus),
		Ventures:           basesvc.NewBaseServiceMongo[portfoliomodels.Venture](collection(names.Ventures), bus),
		Inquiries:          basesvc.NewBaseServiceMongo[inquirymodels.Inquiry](collection(names.Inquiries), bus),
	}

	cfg := global.MongoDB_ServerConfig
	mail := mailer.New(cfg)
	if mail.Enabled() {
		notifier := inquirysvc.NewNotifier(mail, cfg.AdminNotifyEmail, cfg.MailFromName, cfg.FrontendURL)
		bus.OnDataChanged(notifier.Subscriber(names.Inquiries))
		logger.GetAppLogger().Info("Inquiry mails enabled")
	}

	app, err := Wire(cfg, stores, global.MongoDB_Session, bus)
	if err != nil {
		logger.GetAppLogger().Fatalf("Failed to wire services: %v", err)
	}
	return app
}

// Wire builds the services, handlers and route registrations on stores.
func Wire(cfg *config.Configuration, stores Stores, db basehdl.Pinger, bus *events.Bus) (*App, error) {
	log := logger.GetAppLogger()

	tokens, err := authsvc.NewTokenService(cfg.JwtSecret, time.Duration(cfg.JwtExpiresHours)*time.Hour, stores.Admins)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	admins := authsvc.NewAdminService(stores.Admins, tokens)

	contents := contentsvc.NewContentService(stores.Contents, admins)
	pages := contentsvc.NewContentManagementService(stores.ContentManagements, admins)
	contact := contentsvc.NewContactSocialService(stores.ContactSocials, admins)

	news := portfoliosvc.NewNewsService(stores.News, admins)
	initiatives := portfoliosvc.NewInitiativeService(stores.Initiatives, admins)
	ventures := portfoliosvc.NewVentureService(stores.Ventures, admins)

	inquiries := inquirysvc.NewInquiryService(stores.Inquiries)

	media := mediasvc.NewMediaService(mediasvc.ConfigFrom(cfg))
	if !media.Configured() {
		log.Warn("MEDIA_* credentials not set, uploads will fail with 502")
	}

	system := basehdl.NewSystemHandler(db)

	return &App{
		Bus:    bus,
		Admins: admins,
		Options: apirouter.Options{
			Auth:                     tokens,
			ContentWriteAuthRequired: cfg.ContentWriteAuthRequired,
		},
		Routes: []apirouter.RegisterFunc{
			func(v1 fiber.Router, _ *apirouter.Router) error {
				v1.Get("/system/health", system.HandleHealth)
				return nil
			},
			authrouter.Register(authhdl.NewAuthHandler(admins)),
			contentrouter.Register(contentrouter.Handlers{
				Content:           contenthdl.NewContentHandler(contents),
				ContentManagement: contenthdl.NewContentManagementHandler(pages),
				ContactSocial:     contenthdl.NewContactSocialHandler(contact),
			}),
			portfoliorouter.Register(portfoliorouter.Handlers{
				News:        portfoliohdl.NewNewsHandler(news),
				Initiatives: portfoliohdl.NewInitiativeHandler(initiatives),
				Ventures:    portfoliohdl.NewVentureHandler(ventures),
			}),
			inquiryrouter.Register(inquiryhdl.NewInquiryHandler(inquiries), inquiryrouter.SubmitLimit{
				Max:    cfg.InquiryRateLimit_Max,
				Window: time.Duration(cfg.RateLimit_Window) * time.Second,
			}),
			mediarouter.Register(mediahdl.NewMediaHandler(media)),
		},
	}, nil
}
