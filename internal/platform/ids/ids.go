package ids

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

// DATETIME(6) に合わせてマイクロ秒で丸める
func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type IDGen interface {
	New() (string, error)
}

type ULIDGen struct{}

func (ULIDGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FixedClock is a test clock that only moves when told to.
type FixedClock struct{ T time.Time }

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
