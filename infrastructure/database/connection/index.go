package connection

import (
	"os"

	"rollcall.io/infrastructure/database/connection/cache"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/logger"
)

func ConnectToDatabase() {
	if os.Getenv("DB_DRIVER") == "memory" {
		logger.Info("DB_DRIVER is memory, skipping mongodb and redis connections")
		return
	}
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}
