package record

import (
	"crypto/rand"
	mrand "math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Source is the random capability the generator draws from.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// SystemSource returns a ChaCha8 source seeded from crypto/rand.
func SystemSource() *mrand.Rand {
	var seed [32]byte
	mustRead(seed[:])
	return mrand.New(mrand.NewChaCha8(seed))
}

// SeededSource returns a deterministic source for the given seed.
func SeededSource(seed uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator produces random records.
type Generator struct {
	src Source
	now func() time.Time
	buf []byte
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source. The default is SystemSource.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithClock sets the clock register_time is sampled back from.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, o := range opts {
		o(g)
	}
	if g.src == nil {
		g.src = SystemSource()
	}
	return g
}

// Generate produces the record with the given row id.
func (g *Generator) Generate(id int) Record {
	name := g.Name()
	return Record{
		ID:           id,
		Name:         name,
		Age:          g.Age(),
		Email:        g.Email(name),
		Phone:        g.Phone(),
		RegisterTime: g.RegisterTime(),
		Salary:       g.Salary(),
		Address:      g.Address(),
	}
}

// Fill overwrites recs with records numbered first, first+1, ...
func (g *Generator) Fill(recs []Record, first int) {
	for i := range recs {
		recs[i] = g.Generate(first + i)
	}
}

// Name joins a surname and a given-name fragment, e.g. "ZhangWei".
func (g *Generator) Name() string {
	return g.pick(surnameFragments) + g.pick(givenNameFragments)
}

// Age returns an age in [MinAge, MaxAge].
func (g *Generator) Age() int {
	return MinAge + g.src.IntN(MaxAge-MinAge+1)
}

// Email generates <lowercased name><1000-9999>@<domain>.
func (g *Generator) Email(name string) string {
	b := g.buf[:0]
	b = append(b, strings.ToLower(name)...)
	b = strconv.AppendInt(b, int64(1000+g.src.IntN(9000)), 10)
	b = append(b, '@')
	b = append(b, g.pick(Domains)...)
	g.buf = b
	return string(b)
}

// Phone generates "1" followed by ten random digits.
func (g *Generator) Phone() string {
	b := g.buf[:0]
	b = append(b, '1')
	for range 10 {
		b = append(b, g.pickByte(digitChars))
	}
	g.buf = b
	return string(b)
}

// RegisterTime samples a second-precision time in the last RegisterWindowDays.
func (g *Generator) RegisterTime() string {
	now := g.now().Truncate(time.Second)
	start := now.AddDate(0, 0, -RegisterWindowDays)
	span := int(now.Sub(start) / time.Second)
	offset := time.Duration(g.src.IntN(span+1)) * time.Second
	return start.Add(offset).Format(TimeLayout)
}

// Salary returns an amount in [MinSalary, MaxSalary] rounded to the cent.
func (g *Generator) Salary() Cents {
	lo, hi := float64(MinSalary), float64(MaxSalary)
	c := Cents(lo + g.src.Float64()*(hi-lo) + 0.5)
	return min(c, MaxSalary)
}

// Address generates "<region> <10 alphanumerics>".
func (g *Generator) Address() string {
	b := g.buf[:0]
	b = append(b, g.pick(Regions)...)
	b = append(b, ' ')
	for range 10 {
		b = append(b, g.pickByte(alnumChars))
	}
	g.buf = b
	return string(b)
}

// pick returns a random element from a string slice.
func (g *Generator) pick(s []string) string {
	return s[g.src.IntN(len(s))]
}

// pickByte returns a random byte from a string.
func (g *Generator) pickByte(s string) byte {
	return s[g.src.IntN(len(s))]
}

// mustRead fills b with cryptographically random bytes.
func mustRead(b []byte) {
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
}
