// Package bootstrap assembles the optional infrastructure pieces from
// configuration. Every builder degrades gracefully: a missing backend
// returns nil (or an in-memory fallback) so the API can still serve
// lead intake with partial configuration.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/crescentview/leadgate/internal/bitrix"
	appconfig "github.com/crescentview/leadgate/internal/config"
	"github.com/crescentview/leadgate/internal/leads"
	"github.com/crescentview/leadgate/internal/notify"
	"github.com/crescentview/leadgate/internal/projects"
	"github.com/crescentview/leadgate/internal/sheets"
	"github.com/crescentview/leadgate/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildProjectsRepository returns the catalog repository: Postgres when
// DATABASE_URL is set, in-memory otherwise, wrapped in a Redis
// read-through cache when a client is available. The returned closer
// releases the connection pool and is safe to call unconditionally.
func BuildProjectsRepository(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (projects.Repository, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repo   projects.Repository
		closer = func() {}
	)
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, closer, err
		}
		repo = projects.NewPostgresRepository(pool)
		closer = pool.Close
	} else {
		logger.Warn("no database configured, using in-memory project catalog")
		repo = projects.NewInMemoryRepository()
	}

	if redisClient != nil {
		repo = projects.NewCachedRepository(repo, redisClient, cfg.ProjectCacheTTL, logger)
	}
	return repo, closer, nil
}

// BuildRecordWriter returns the Google Sheets lead log writer. The
// writer validates its credentials lazily, so this never fails startup.
func BuildRecordWriter(cfg *appconfig.Config) *sheets.Writer {
	return sheets.NewWriter(sheets.Config{
		SpreadsheetID:       cfg.GoogleSheetID,
		Tab:                 cfg.GoogleSheetTab,
		ServiceAccountEmail: cfg.GoogleSAEmail,
		PrivateKey:          cfg.GoogleSAPrivateKey,
		Timeout:             cfg.SheetsTimeout,
	})
}

// BuildCRMForwarder returns the Bitrix client, or nil when no webhook
// URL is configured. The lead pipeline treats a nil forwarder as
// "CRM forwarding disabled".
func BuildCRMForwarder(cfg *appconfig.Config, logger *logging.Logger) leads.CRMForwarder {
	client, err := bitrix.New(bitrix.Config{
		WebhookURL: cfg.BitrixWebhookURL,
		Timeout:    cfg.BitrixTimeout,
		Logger:     logger.Logger,
	})
	if err != nil {
		logger.Warn("bitrix forwarding disabled", "error", err)
		return nil
	}
	return client
}

// BuildLeadNotifier returns the new-lead email notifier, or nil when
// SendGrid or the recipient address is not configured.
func BuildLeadNotifier(cfg *appconfig.Config, logger *logging.Logger) leads.Notifier {
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender == nil {
		logger.Info("sendgrid not configured, lead notifications disabled")
		return nil
	}
	notifier := leads.NewEmailNotifier(sender, cfg.LeadNotifyEmail, cfg.LeadNotifyName, logger)
	if notifier == nil {
		return nil
	}
	return notifier
}
