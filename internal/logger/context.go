package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Locals keys shared with the middleware package.
const (
	LocalRequestID = "requestid"
	LocalAdminID   = "adminID"
)

// WithRequest returns an app logger entry carrying request id, method, path and ip.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})

	if id := RequestID(c); id != "" {
		entry = entry.WithField("request_id", id)
	}
	if adminID, ok := c.Locals(LocalAdminID).(string); ok && adminID != "" {
		entry = entry.WithField("admin_id", adminID)
	}
	return entry
}

// RequestID reads the id set by the requestid middleware, falling back to headers.
func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(LocalRequestID).(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// WithFields returns an app logger entry with extra fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError returns an app logger entry with err attached.
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule tags the entry with a module name (auth, content, inquiry, media, ...).
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithCollection tags the entry with a Mongo collection name.
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}

// WithModuleAndCollection combines WithModule and WithCollection.
func WithModuleAndCollection(module, collection string) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields{
		"module":     module,
		"collection": collection,
	})
}
