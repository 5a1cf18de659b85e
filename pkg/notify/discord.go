// Package notify alerts the operator when the account starts needing a rebalance.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	lhttp "levguard/pkg/http"
	"levguard/pkg/monitor"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	colorWarning = 0xE67E22
	colorResolve = 0x2ECC71
)

type webhookPayload struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Discord posts to a webhook when action_needed flips to true and again when it clears.
// Failed statuses are ignored and do not reset the flag.
type Discord struct {
	webhookURL string
	username   string

	mu           sync.Mutex
	actionNeeded bool
	logger       *log.Entry
}

func NewDiscord(webhookURL string, username string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		username:   username,
		logger:     log.WithField("component", "discord"),
	}
}

func (d *Discord) OnStatus(ctx context.Context, status *monitor.Status) {
	if !status.OK() {
		return
	}

	d.mu.Lock()
	changed := status.Plan.ActionNeeded != d.actionNeeded
	d.actionNeeded = status.Plan.ActionNeeded
	d.mu.Unlock()
	if !changed {
		return
	}

	if err := d.send(ctx, buildPayload(d.username, status)); err != nil {
		d.logger.Errorf("fail to send discord alert: %v", err)
	}
}

func (d *Discord) send(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("fail to marshal webhook payload: %w", err)
	}
	code, resBody, err := lhttp.PostRequest(ctx, d.webhookURL, body)
	if err != nil {
		return err
	}
	if code >= 300 {
		return fmt.Errorf("webhook responded %d: %s", code, string(resBody))
	}
	return nil
}

func buildPayload(username string, status *monitor.Status) webhookPayload {
	report := monitor.NewReport(*status.Plan, status.UpdatedAt)
	e := embed{
		Title:     "✅ Leverage back within target",
		Color:     colorResolve,
		Timestamp: status.UpdatedAt.UTC().Format(time.RFC3339),
		Fields: []embedField{
			{Name: "Price", Value: fmt.Sprintf("%v", report.Price), Inline: true},
			{Name: "Leverage", Value: fmt.Sprintf("%vx (target %vx)", report.CurrentLeverage, report.TargetLeverage), Inline: true},
			{Name: "Margin", Value: fmt.Sprintf("%v USDT", report.MarginBalance), Inline: true},
		},
	}
	if report.ActionNeeded {
		e.Title = "⚠️ Rebalance needed"
		e.Color = colorWarning
		e.Fields = append(e.Fields,
			embedField{Name: "Sell spot", Value: fmt.Sprintf("%v BTC", report.Instruction.SellSpotBtc)},
			embedField{Name: "Transfer spot -> futures", Value: fmt.Sprintf("%v USDT", report.Instruction.TransferUsdt)},
		)
		if status.Plan.SpotShortfall() {
			e.Fields = append(e.Fields, embedField{Name: "Spot balance", Value: fmt.Sprintf("insufficient: %v available", *report.Instruction.SpotAvailable)})
		}
	}
	return webhookPayload{Username: username, Embeds: []embed{e}}
}
