package units

import (
	"sync"

	"github.com/futurework-1/NestEgg-Journal/internal/datastore"
	"github.com/futurework-1/NestEgg-Journal/internal/events"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// Event actions published on events.TopicSettings. The key is the store key
// of the preference, the payload the new unit.
const ActionUnitChanged = "unit-changed"

// Preferences holds the selected units and persists every change
type Preferences struct {
	store  datastore.Interface
	bus    *events.EventBus
	logger logger.Logger

	mu          sync.RWMutex
	temperature TemperatureUnit
	distance    DistanceUnit
}

func NewPreferences(store datastore.Interface, log logger.Logger, bus *events.EventBus) *Preferences {
	if log == nil {
		log = logger.Discard()
	}
	return &Preferences{
		store:       store,
		bus:         bus,
		logger:      log.Module("units"),
		temperature: DefaultTemperature,
		distance:    DefaultDistance,
	}
}

// Load reads both preferences. Missing, unreadable or unknown values leave
// the default in place.
func (p *Preferences) Load() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.loadString(datastore.KeyTemperatureUnit); ok {
		if u := TemperatureUnit(s); u.Valid() {
			p.temperature = u
		} else {
			p.logger.Warn("ignoring unknown temperature unit", logger.String("value", s))
		}
	}
	if s, ok := p.loadString(datastore.KeyDistanceUnit); ok {
		if u := DistanceUnit(s); u.Valid() {
			p.distance = u
		} else {
			p.logger.Warn("ignoring unknown distance unit", logger.String("value", s))
		}
	}
}

func (p *Preferences) loadString(key string) (string, bool) {
	s, ok, err := datastore.LoadString(p.store, key)
	if err != nil {
		p.logger.Warn("failed to read unit preference", logger.String("key", key), logger.Error(err))
		return "", false
	}
	return s, ok
}

func (p *Preferences) Temperature() TemperatureUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.temperature
}

func (p *Preferences) Distance() DistanceUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.distance
}

// SetTemperature persists u and then makes it current
func (p *Preferences) SetTemperature(u TemperatureUnit) error {
	if !u.Valid() {
		return unknownUnit("temperature", string(u))
	}
	p.mu.Lock()
	if err := datastore.SaveJSON(p.store, datastore.KeyTemperatureUnit, string(u)); err != nil {
		p.mu.Unlock()
		p.logger.Error("failed to save temperature unit", logger.Error(err))
		return err
	}
	p.temperature = u
	p.mu.Unlock()

	p.bus.Publish(events.TopicSettings, ActionUnitChanged, datastore.KeyTemperatureUnit, u)
	return nil
}

// SetDistance persists u and then makes it current
func (p *Preferences) SetDistance(u DistanceUnit) error {
	if !u.Valid() {
		return unknownUnit("distance", string(u))
	}
	p.mu.Lock()
	if err := datastore.SaveJSON(p.store, datastore.KeyDistanceUnit, string(u)); err != nil {
		p.mu.Unlock()
		p.logger.Error("failed to save distance unit", logger.Error(err))
		return err
	}
	p.distance = u
	p.mu.Unlock()

	p.bus.Publish(events.TopicSettings, ActionUnitChanged, datastore.KeyDistanceUnit, u)
	return nil
}
