package board

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/sim"
)

var registered atomic.Int32

// registerSim publishes the simulated matrix lines in gpioreg under a fresh
// prefix; the registry cannot forget names.
func registerSim(t *testing.T, prefix string) (*sim.Matrix, *config.Matrix) {
	t.Helper()
	prefix = fmt.Sprintf("%s%d", prefix, registered.Add(1))
	m := sim.NewMatrix()
	cfg := &config.Matrix{SettleUs: 250}
	for i, c := range m.Cols {
		n := fmt.Sprintf("%s_COL%d", prefix, i+1)
		require.NoError(t, gpioreg.Register(&named{Column: c, name: n}))
		cfg.Columns = append(cfg.Columns, n)
	}
	for i, r := range m.Rows {
		n := fmt.Sprintf("%s_ROW%d", prefix, i+1)
		r.N = n
		require.NoError(t, gpioreg.Register(r))
		cfg.Rows = append(cfg.Rows, n)
	}
	return m, cfg
}

// named renames a sim column without disturbing its row wiring.
type named struct {
	*sim.Column
	name string
}

func (n *named) Name() string { return n.name }

func TestOpenMatrixFromRegistry(t *testing.T) {
	m, cfg := registerSim(t, "REG")
	km, err := openMatrix(cfg)
	require.NoError(t, err)
	assert.Equal(t, 250_000, int(km.Settle.Nanoseconds()))

	m.Press(keys.Rec)
	require.NoError(t, km.Scan(&sim.Sleeper{}))
	assert.Equal(t, keys.Rec.Mask(), km.State.Current)
	for _, r := range m.Rows {
		assert.Equal(t, gpio.PullDown, r.P)
	}
}

func TestOpenMatrixMissingPin(t *testing.T) {
	_, cfg := registerSim(t, "MISS")
	cfg.Rows[3] = "NO_SUCH_PIN"
	_, err := openMatrix(cfg)
	assert.ErrorIs(t, err, ErrPinNotFound)
	assert.Contains(t, err.Error(), "NO_SUCH_PIN")
}

func TestResetPulse(t *testing.T) {
	p := &gpiotest.Pin{N: "RST"}
	s := &sim.Sleeper{}
	require.NoError(t, resetPulse(p, s))
	assert.Equal(t, gpio.High, p.Read())
	assert.Equal(t, 1, s.Calls)
}
