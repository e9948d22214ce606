package checkout

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

const orderIDPrefix = "TRK"

var orderIDPattern = regexp.MustCompile(`^TRK\d{13,}\d{1,4}$`)

// IDGenerator produces order ids of the form TRK<unix-ms><0..9999>. Ids are
// weakly unique; two draws in the same millisecond can collide.
type IDGenerator struct {
	Now  func() time.Time
	Rand func(n int) int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{Now: time.Now, Rand: rand.Intn}
}

func (g *IDGenerator) Next() string {
	return FormatOrderID(g.Now(), g.Rand(10000))
}

func FormatOrderID(t time.Time, suffix int) string {
	return fmt.Sprintf("%s%d%d", orderIDPrefix, t.UnixMilli(), suffix)
}

// ValidOrderID checks the shape of an order id.
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}
