package ingestion

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"search-and-destroy/internal/domain/device"
	"search-and-destroy/internal/logger"
)

const (
	// LocationTopic is the wildcard subscription for device position
	// reports; the device id is the third topic segment.
	LocationTopic = "sad/devices/+/location"

	writeTimeout = 5 * time.Second
)

// Processor drains location messages from the broker into the Directory
// with a small worker pool.
type Processor struct {
	directory device.Directory

	locationChan chan *LocationMessage
	workerCount  int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProcessor(directory device.Directory, workerCount, bufferSize int) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		directory:    directory,
		locationChan: make(chan *LocationMessage, bufferSize),
		workerCount:  workerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the worker pool.
func (p *Processor) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.locationWorker(i)
	}

	logger.Info("Location ingestion started", zap.Int("workers", p.workerCount))
}

// Stop drains the workers and waits for them to finish.
func (p *Processor) Stop() {
	p.cancel()
	close(p.locationChan)
	p.wg.Wait()

	logger.Info("Location ingestion stopped")
}

// HandleMessage is the broker callback: parse, validate, enqueue. A full
// buffer drops the message; position reports are periodic and the next
// one supersedes it anyway.
func (p *Processor) HandleMessage(topic string, payload []byte) {
	var msg LocationMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn("Malformed location payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	if msg.DeviceID == "" {
		msg.DeviceID = deviceIDFromTopic(topic)
	}

	if err := ValidateLocationMessage(&msg); err != nil {
		logger.Warn("Invalid location message", zap.String("topic", topic), zap.Error(err))
		return
	}

	select {
	case p.locationChan <- &msg:
	case <-p.ctx.Done():
	default:
		logger.Warn("Location buffer full, dropping message", zap.String("device_id", msg.DeviceID))
	}
}

func (p *Processor) locationWorker(id int) {
	defer p.wg.Done()

	for {
		select {
		case msg, ok := <-p.locationChan:
			if !ok {
				return
			}
			p.processLocation(msg)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Processor) processLocation(msg *LocationMessage) {
	deviceID, err := uuid.Parse(msg.DeviceID)
	if err != nil {
		logger.Warn("Location report with invalid device id", zap.String("device_id", msg.DeviceID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.directory.UpdateLocation(ctx, deviceID, msg.Latitude, msg.Longitude); err != nil {
		logger.Warn("Failed to store device location",
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
	}
}

func deviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
