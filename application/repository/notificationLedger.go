package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rollcall.io/application/utils"
	"rollcall.io/infrastructure/database/repository/cache"
)

// entries outlive the day they cover so a late retry still sees them
const ledgerTTL = 48 * time.Hour

var ledgerOnce = sync.Once{}

var notificationLedger NotificationLedger

func Ledger() NotificationLedger {
	ledgerOnce.Do(func() {
		if useMemoryStore() {
			notificationLedger = NewMemoryNotificationLedger()
			return
		}
		notificationLedger = &redisNotificationLedger{cache: &cache.Cache}
	})
	return notificationLedger
}

func ledgerKey(personID string, date time.Time) string {
	return fmt.Sprintf("daily-report-%s-%s", personID, utils.StartOfDay(date).Format(time.DateOnly))
}

type redisNotificationLedger struct {
	cache *cache.RedisRepository
}

func (l *redisNotificationLedger) Claim(ctx context.Context, personID string, date time.Time) (bool, error) {
	return l.cache.CreateEntryIfAbsent(ctx, ledgerKey(personID, date), time.Now().Unix(), ledgerTTL)
}

func (l *redisNotificationLedger) Release(ctx context.Context, personID string, date time.Time) error {
	return l.cache.DeleteEntry(ctx, ledgerKey(personID, date))
}
