package core

import (
	"fmt"
	"levguard/config"
	"levguard/pkg/archive"
	"levguard/pkg/exchange"
	"levguard/pkg/monitor"
	"levguard/pkg/notify"
	"levguard/pkg/rebalance"
	"levguard/pkg/utils"

	log "github.com/sirupsen/logrus"
)

func Bootstrap(cfg config.Config) (*Universe, error) {
	log.Info("🦾 Bootstrapping...")

	// register exchange
	exchg, err := exchange.NewExchange(cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to register exchange %v: %w", cfg.Exchange.ExchangeName, err)
	}
	log.Infof("exchange '%v' registered", exchg.Name())

	return Assemble(cfg, exchg)
}

// Assemble wires the monitor, its hooks and the poller around an existing exchange.
func Assemble(cfg config.Config, exchg exchange.Exchange) (*Universe, error) {
	m := cfg.Monitor
	params := rebalance.NewParams(m.TargetLeverage, *m.ActionThreshold, *m.FeeBuffer)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	mon := monitor.New(exchg, monitor.Options{
		Symbol:    m.Symbol,
		SpotAsset: m.SpotAsset,
		Params:    params,
		CacheTTL:  m.CacheTTL,
	})
	log.Infof("monitor ready: %v, target leverage %vx, cache ttl %v", m.Symbol, m.TargetLeverage, m.CacheTTL)

	universe := &Universe{Config: cfg, Monitor: mon}
	if m.PollEnabled != nil && !*m.PollEnabled {
		log.Info("polling disabled, status is fetched on request only")
		return universe, nil
	}

	hooks, err := setupHooks(cfg)
	if err != nil {
		return nil, err
	}
	universe.Poller = monitor.NewPoller(mon, m.PollInterval, hooks...)
	return universe, nil
}

func setupHooks(cfg config.Config) ([]monitor.Hook, error) {
	var hooks []monitor.Hook

	discord := cfg.Notifications.Discord
	if webhookURL := utils.LoadEnvWithDefault(discord.EnvKey, ""); webhookURL != "" {
		hooks = append(hooks, notify.NewDiscord(webhookURL, discord.Username))
		log.Info("discord notifications enabled")
	}

	if s3Cfg := cfg.Persistence.S3; s3Cfg.Enabled {
		creds, err := config.LoadAwsCredentials(s3Cfg.EnvPrefix)
		if err != nil {
			return nil, err
		}
		client, err := archive.NewClient(creds.AccessKey, creds.SecretKey, s3Cfg.Region)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, archive.NewS3Archive(client, s3Cfg.Bucket, s3Cfg.Prefix))
		log.Infof("status archive enabled: s3://%v/%v", s3Cfg.Bucket, s3Cfg.Prefix)
	}
	return hooks, nil
}
