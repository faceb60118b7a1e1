package tlmbridge

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	config "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Config"
	logger "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Logger"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

// dropReason is the terminal non-fatal outcome for a message that cannot be
// persisted. Nothing from message processing ever propagates far enough to
// tear down the subscriber.
type dropReason string

const (
	dropNone               dropReason = ""
	dropParseError         dropReason = "parse_error"
	dropUnknownTenant      dropReason = "unknown_tenant"
	dropStorageUnavailable dropReason = "storage_unavailable"
)

// Stats counts per-outcome message totals across all workers.
type Stats struct {
	Processed          atomic.Uint64
	ParseErrors        atomic.Uint64
	UnknownTenants     atomic.Uint64
	StorageUnavailable atomic.Uint64
}

// Snapshot returns the current counters for the health endpoint.
func (s *Stats) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"processed":           s.Processed.Load(),
		"parse_errors":        s.ParseErrors.Load(),
		"unknown_tenants":     s.UnknownTenants.Load(),
		"storage_unavailable": s.StorageUnavailable.Load(),
	}
}

type inbound struct {
	topic   string
	payload []byte
}

// Bridge is the long-lived subscriber translating device messages into
// tenant-scoped storage writes. It holds no persistent state of its own; it
// routes between the tenant directory, the scoped pool and the per-tenant
// repositories.
type Bridge struct {
	cfg     *config.BridgeConfig
	tenants interfaces.TenantRepository
	store   interfaces.TenantStore
	logger  *logger.Logger
	client  mqtt.Client
	msgCh   chan inbound
	wg      sync.WaitGroup
	stats   Stats
}

func New(cfg *config.BridgeConfig, tenants interfaces.TenantRepository, store interfaces.TenantStore, log *logger.Logger) *Bridge {
	return &Bridge{
		cfg:     cfg,
		tenants: tenants,
		store:   store,
		logger:  log.WithComponent("bridge"),
		msgCh:   make(chan inbound, cfg.Ingest.QueueSize),
	}
}

func (b *Bridge) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(b.cfg.MQTT.GetMQTTBrokerURL()).
		SetClientID(b.cfg.MQTT.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(b.cfg.MQTT.KeepAlive).
		SetPingTimeout(b.cfg.MQTT.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if b.cfg.MQTT.BrokerUser != "" {
		opts.SetUsername(b.cfg.MQTT.BrokerUser)
		opts.SetPassword(b.cfg.MQTT.BrokerPass)
	}

	if b.cfg.MQTT.UseTLS {
		tlsCfg, err := b.tlsConfig(b.cfg.MQTT.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		b.logger.ErrorWithError(err, "mqtt connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		topic := b.cfg.MQTT.Topic
		if b.cfg.MQTT.SharedGroup != "" {
			topic = fmt.Sprintf("$share/%s/%s", b.cfg.MQTT.SharedGroup, b.cfg.MQTT.Topic)
		}
		b.logger.WithField("topic", topic).Info("mqtt connected, subscribing")
		if token := c.Subscribe(topic, 1, b.onMessage); token.Wait() && token.Error() != nil {
			b.logger.ErrorWithError(token.Error(), "subscribe error")
		}
	}

	b.client = mqtt.NewClient(opts)
	if tk := b.client.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	for i := 0; i < b.cfg.Ingest.Workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.worker(ctx)
		}()
	}

	return nil
}

func (b *Bridge) Stop() {
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(500)
	}
	close(b.msgCh)
	b.wg.Wait()
}

func (b *Bridge) IsConnected() bool {
	return b.client != nil && b.client.IsConnected()
}

// Stats exposes the processing counters.
func (b *Bridge) Stats() *Stats {
	return &b.stats
}

// onMessage hands the raw message to the worker pool. Backpressure beyond
// the queue is the broker client's problem; the bridge keeps no queue of its
// own past this channel.
func (b *Bridge) onMessage(_ mqtt.Client, m mqtt.Message) {
	b.msgCh <- inbound{topic: m.Topic(), payload: m.Payload()}
}

func (b *Bridge) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-b.msgCh:
			if !ok {
				return
			}
			b.record(b.handle(ctx, msg.topic, msg.payload))
		}
	}
}

func (b *Bridge) record(reason dropReason) {
	switch reason {
	case dropNone:
		b.stats.Processed.Add(1)
	case dropParseError:
		b.stats.ParseErrors.Add(1)
	case dropUnknownTenant:
		b.stats.UnknownTenants.Add(1)
	case dropStorageUnavailable:
		b.stats.StorageUnavailable.Add(1)
	}
}

// handle runs one message through the ingest pipeline: parse, resolve
// tenant, open the tenant schema, ensure the device, append the reading.
// Every failure drops the message and leaves the subscriber running.
func (b *Bridge) handle(ctx context.Context, topic string, payload []byte) dropReason {
	t, ok := ParseTopic(topic)
	if !ok {
		b.logger.WithField("topic", topic).Warn("dropping message with unexpected topic shape")
		return dropParseError
	}

	p, err := tlmmodels.ParseDevicePayload(payload)
	if err != nil {
		b.logger.WithField("topic", topic).WithError(err).Warn("dropping malformed payload")
		return dropParseError
	}

	opCtx, cancel := context.WithTimeout(ctx, b.cfg.Ingest.MessageTimeout)
	defer cancel()

	tenant, err := b.tenants.ResolveActiveTenant(opCtx, t.TenantSlug)
	if err != nil {
		b.logger.WithTenant(t.TenantSlug).WithError(err).Error("tenant lookup failed, dropping message")
		return dropStorageUnavailable
	}
	if tenant == nil {
		b.logger.WithTenant(t.TenantSlug).Warn("unknown or inactive tenant, dropping message")
		return dropUnknownTenant
	}

	sess, err := b.store.Acquire(opCtx, tenant.Slug)
	if err != nil {
		b.logger.WithTenant(tenant.Slug).WithError(err).Error("failed to open tenant schema, dropping message")
		return dropStorageUnavailable
	}
	// Release must run on every path below, with its own deadline: the
	// message context may already be dead by the time we get here.
	defer func() {
		releaseCtx, releaseCancel := context.WithTimeout(context.Background(), b.cfg.Ingest.ReleaseTimeout)
		defer releaseCancel()
		if err := sess.Release(releaseCtx); err != nil {
			b.logger.WithTenant(tenant.Slug).WithError(err).Error("failed to release tenant connection")
		}
	}()

	deviceID, outcome, err := sess.Devices().EnsureDevice(opCtx, t.DeviceKey, p.DisplayName(t.DeviceKey))
	if err != nil {
		b.logger.WithTenant(tenant.Slug).WithField("device_key", t.DeviceKey).
			WithError(err).Error("device upsert failed, dropping message")
		return dropStorageUnavailable
	}
	if outcome == interfaces.DeviceCreated {
		b.logger.WithTenant(tenant.Slug).WithField("device_key", t.DeviceKey).Info("auto-registered device")
	}

	if err := sess.Readings().AppendReading(opCtx, deviceID, p.Temperature(), p.RelayStatus(), p.IsAlarm()); err != nil {
		b.logger.WithTenant(tenant.Slug).WithField("device_key", t.DeviceKey).
			WithError(err).Error("reading insert failed, dropping message")
		return dropStorageUnavailable
	}

	b.logger.WithTenant(tenant.Slug).WithField("device_key", t.DeviceKey).Debug("saved reading")
	return dropNone
}

func (b *Bridge) tlsConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	ca, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("bad CA file")
	}
	cfg.RootCAs = cp
	return cfg, nil
}
