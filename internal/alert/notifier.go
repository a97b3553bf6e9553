// Package alert delivers churn alerts to webhook receivers.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
)

// KindChurnRate marks an alert raised by a churn rate at or above its threshold.
const KindChurnRate = "churn_rate"

// Alert is the webhook payload.
type Alert struct {
	Kind               string  `json:"kind"`
	ChurnRate          float64 `json:"churn_rate"`
	ThresholdPct       float64 `json:"threshold_pct"`
	ChurnThresholdDays int     `json:"churn_threshold_days"`
	SnapshotID         string  `json:"snapshot_id"`
	Message            string  `json:"message"`
}

// NewChurnAlert builds the alert for a snapshot whose churn rate crossed thresholdPct.
func NewChurnAlert(snapshotID string, churnRate, thresholdPct float64, thresholdDays int) Alert {
	return Alert{
		Kind:               KindChurnRate,
		ChurnRate:          churnRate,
		ThresholdPct:       thresholdPct,
		ChurnThresholdDays: thresholdDays,
		SnapshotID:         snapshotID,
		Message: fmt.Sprintf("churn rate %.2f%% reached the %.2f%% alert threshold (inactive > %d days)",
			churnRate, thresholdPct, thresholdDays),
	}
}

type Provider interface {
	Name() string
	Ready() bool
	Acquire() bool
	Notify(ctx context.Context, a Alert) error
}

// WebhookProvider posts alerts as JSON to one URL behind a breaker.
type WebhookProvider struct {
	name   string
	url    string
	client *http.Client
	br     *Breaker
}

func NewWebhookProvider(name, url string, timeoutMs, failThreshold, openForMs int) *WebhookProvider {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}
	if failThreshold <= 0 {
		failThreshold = 3
	}
	if openForMs <= 0 {
		openForMs = 15000
	}

	return &WebhookProvider{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:     NewBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

// ProvidersFrom builds a provider per enabled webhook.
func ProvidersFrom(hooks []config.WebhookConfig) []Provider {
	var out []Provider
	for _, h := range hooks {
		if !h.Enabled || h.URL == "" {
			continue
		}
		out = append(out, NewWebhookProvider(h.Name, h.URL, h.TimeoutMs, h.Breaker.FailThreshold, h.Breaker.OpenForMs))
	}
	return out
}

func (p *WebhookProvider) Name() string  { return p.name }
func (p *WebhookProvider) Ready() bool   { return p.br.Ready() }
func (p *WebhookProvider) Acquire() bool { return p.br.Acquire() }

func (p *WebhookProvider) Notify(ctx context.Context, a Alert) error {
	if err := p.post(ctx, a); err != nil {
		p.br.Failure()
		return err
	}
	p.br.Success()
	return nil
}

func (p *WebhookProvider) post(ctx context.Context, a Alert) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("webhook=%s status=%d", p.name, res.StatusCode)
	}
	return nil
}
