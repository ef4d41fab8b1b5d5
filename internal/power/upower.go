package power

import (
	"context"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/logger"
	"github.com/godbus/dbus/v5"
)

const (
	upowerService   = "org.freedesktop.UPower"
	upowerPath      = dbus.ObjectPath("/org/freedesktop/UPower")
	upowerInterface = "org.freedesktop.UPower"
	deviceInterface = "org.freedesktop.UPower.Device"

	enumerateMethod = upowerInterface + ".EnumerateDevices"
	getMethod       = "org.freedesktop.DBus.Properties.Get"
	getAllMethod    = "org.freedesktop.DBus.Properties.GetAll"

	// UPower device type for batteries
	deviceTypeBattery = 2
)

// upowerBus abstracts the D-Bus calls for testing
type upowerBus interface {
	EnumerateDevices(ctx context.Context) ([]dbus.ObjectPath, error)
	DeviceProperties(ctx context.Context, path dbus.ObjectPath) (map[string]dbus.Variant, error)
	DaemonVersion(ctx context.Context) (string, error)
	Close() error
}

type systemBus struct {
	conn *dbus.Conn
}

func (b *systemBus) EnumerateDevices(ctx context.Context) ([]dbus.ObjectPath, error) {
	var paths []dbus.ObjectPath
	err := b.conn.Object(upowerService, upowerPath).
		CallWithContext(ctx, enumerateMethod, 0).
		Store(&paths)

	return paths, err
}

func (b *systemBus) DeviceProperties(ctx context.Context, path dbus.ObjectPath) (map[string]dbus.Variant, error) {
	var props map[string]dbus.Variant
	err := b.conn.Object(upowerService, path).
		CallWithContext(ctx, getAllMethod, 0, deviceInterface).
		Store(&props)

	return props, err
}

func (b *systemBus) DaemonVersion(ctx context.Context) (string, error) {
	var v dbus.Variant
	err := b.conn.Object(upowerService, upowerPath).
		CallWithContext(ctx, getMethod, 0, upowerInterface, "DaemonVersion").
		Store(&v)
	if err != nil {
		return "", err
	}
	version, _ := v.Value().(string)

	return version, nil
}

func (b *systemBus) Close() error {
	return b.conn.Close()
}

// UPower reads battery telemetry from the UPower daemon on the system bus.
type UPower struct {
	bus upowerBus
}

// NewUPower connects to the system bus and checks that UPower answers.
func NewUPower(ctx context.Context) (*UPower, error) {
	errFactory := errors.New()

	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, errFactory.WithData(ErrSourceInit, struct {
			Phase string
			Error string
		}{
			Phase: "connect_system_bus",
			Error: err.Error(),
		})
	}

	return openUPower(ctx, &systemBus{conn: conn})
}

// openUPower checks that the daemon answers on bus and takes ownership of
// it. The bus is closed when the check fails.
func openUPower(ctx context.Context, bus upowerBus) (*UPower, error) {
	version, err := bus.DaemonVersion(ctx)
	if err != nil {
		if cerr := bus.Close(); cerr != nil {
			logger.Debug().Err(cerr).Msg("Failed to close system bus after UPower query")
		}
		return nil, errors.New().WithData(ErrSourceInit, struct {
			Phase string
			Error string
		}{
			Phase: "query_daemon",
			Error: err.Error(),
		})
	}

	logger.Debug().Str("daemon_version", version).Msg("Connected to UPower")

	return newUPower(bus), nil
}

func newUPower(bus upowerBus) *UPower {
	return &UPower{bus: bus}
}

func (u *UPower) Devices(ctx context.Context) ([]Device, error) {
	errFactory := errors.New()
	if u.bus == nil {
		return nil, errFactory.New(ErrNotConnected)
	}

	paths, err := u.bus.EnumerateDevices(ctx)
	if err != nil {
		return nil, errFactory.Wrap(ErrEnumerate, err)
	}

	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		props, err := u.bus.DeviceProperties(ctx, path)
		if err != nil {
			return nil, errFactory.WithData(ErrDeviceAccess, struct {
				Path  string
				Error string
			}{
				Path:  string(path),
				Error: err.Error(),
			})
		}

		dev := newUPowerDevice(path, props)
		if !dev.isBattery() {
			continue
		}
		devices = append(devices, dev)
	}

	logger.Debug().
		Int("objects", len(paths)).
		Int("batteries", len(devices)).
		Msg("Enumerated UPower devices")

	return devices, nil
}

func (u *UPower) Close() error {
	if u.bus == nil {
		return nil
	}

	if err := u.bus.Close(); err != nil {
		return errors.New().Wrap(ErrSourceClose, err)
	}
	u.bus = nil

	return nil
}

type upowerDevice struct {
	id               string
	kind             uint32
	powerSupply      bool
	present          bool
	vendor           string
	model            string
	technology       uint32
	state            uint32
	energyRate       float64
	percentage       float64
	energy           float64
	energyFull       float64
	energyFullDesign float64
	voltage          float64
	timeToEmpty      int64
	timeToFull       int64
	chargeCycles     int32
	temperature      float64
}

func newUPowerDevice(path dbus.ObjectPath, props map[string]dbus.Variant) *upowerDevice {
	d := &upowerDevice{
		id:               prop(props, "NativePath", string(path)),
		kind:             prop[uint32](props, "Type", 0),
		powerSupply:      prop(props, "PowerSupply", false),
		present:          prop(props, "IsPresent", false),
		vendor:           prop(props, "Vendor", ""),
		model:            prop(props, "Model", ""),
		technology:       prop[uint32](props, "Technology", 0),
		state:            prop[uint32](props, "State", 0),
		energyRate:       prop(props, "EnergyRate", 0.0),
		percentage:       prop(props, "Percentage", 0.0),
		energy:           prop(props, "Energy", 0.0),
		energyFull:       prop(props, "EnergyFull", 0.0),
		energyFullDesign: prop(props, "EnergyFullDesign", 0.0),
		voltage:          prop(props, "Voltage", 0.0),
		timeToEmpty:      prop[int64](props, "TimeToEmpty", 0),
		timeToFull:       prop[int64](props, "TimeToFull", 0),
		chargeCycles:     prop[int32](props, "ChargeCycles", -1),
		temperature:      prop(props, "Temperature", 0.0),
	}
	if d.id == "" {
		d.id = string(path)
	}

	return d
}

// prop returns the typed value of a property, or def when the property is
// missing or carries an unexpected type.
func prop[T any](props map[string]dbus.Variant, name string, def T) T {
	v, ok := props[name]
	if !ok {
		return def
	}
	val, ok := v.Value().(T)
	if !ok {
		return def
	}

	return val
}

func (d *upowerDevice) isBattery() bool {
	return d.kind == deviceTypeBattery && d.powerSupply && d.present
}

func (d *upowerDevice) ID() string {
	return d.id
}

func (d *upowerDevice) Vendor() (string, bool) {
	return d.vendor, d.vendor != ""
}

func (d *upowerDevice) Model() (string, bool) {
	return d.model, d.model != ""
}

func (d *upowerDevice) Technology() Technology {
	if d.technology > uint32(TechnologyNickelMetalHydride) {
		return TechnologyUnknown
	}

	// UPower numbers technologies in the same order
	return Technology(d.technology)
}

func (d *upowerDevice) State() State {
	switch d.state {
	case 1:
		return StateCharging
	case 2:
		return StateDischarging
	case 3:
		return StateEmpty
	case 4:
		return StateFull
	default:
		// 5 and 6 are pending charge/discharge
		return StateUnknown
	}
}

func (d *upowerDevice) EnergyRate() float64 {
	return d.energyRate
}

func (d *upowerDevice) StateOfCharge() float64 {
	return d.percentage / 100
}

func (d *upowerDevice) Energy() float64 {
	return d.energy
}

func (d *upowerDevice) EnergyFull() float64 {
	return d.energyFull
}

func (d *upowerDevice) EnergyFullDesign() float64 {
	return d.energyFullDesign
}

func (d *upowerDevice) Voltage() float64 {
	return d.voltage
}

func (d *upowerDevice) TimeToEmpty() (time.Duration, bool) {
	return time.Duration(d.timeToEmpty) * time.Second, d.timeToEmpty > 0
}

func (d *upowerDevice) TimeToFull() (time.Duration, bool) {
	return time.Duration(d.timeToFull) * time.Second, d.timeToFull > 0
}

// CycleCount treats zero as unknown: UPower reports -1 and many drivers
// report 0 when the gauge does not count cycles.
func (d *upowerDevice) CycleCount() (uint32, bool) {
	if d.chargeCycles <= 0 {
		return 0, false
	}

	return uint32(d.chargeCycles), true
}

func (d *upowerDevice) Temperature() (float64, bool) {
	return d.temperature, d.temperature != 0
}
