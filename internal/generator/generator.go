// Package generator builds random arithmetic questions.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const (
	// DefaultMin is the smallest operand drawn by default.
	DefaultMin = 100
	// DefaultMax is the largest operand drawn by default.
	DefaultMax = 999
	// MaxOperand bounds operands so a range width or a sum cannot overflow int.
	MaxOperand = 1_000_000_000
)

// Generator produces randomized questions with operands in a closed range.
type Generator struct {
	rnd *rand.Rand
	min int
	max int
}

// New returns a Generator over [lo, hi] seeded with the current time.
func New(lo, hi int) *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), lo, hi)
}

// NewWithRand returns a Generator drawing from rnd. Bounds are swapped if reversed.
func NewWithRand(rnd *rand.Rand, lo, hi int) *Generator {
	if lo > hi {
		lo, hi = hi, lo
	}
	return &Generator{rnd: rnd, min: lo, max: hi}
}

// Generate draws both operands uniformly and picks add or subtract with equal odds.
func (g *Generator) Generate() model.Question {
	first := g.operand()
	second := g.operand()
	op := model.Operations[g.rnd.Intn(len(model.Operations))]
	// Operations only holds operators Apply understands.
	expected, _ := op.Apply(first, second)
	return model.Question{
		First:     first,
		Second:    second,
		Operation: op,
		Expected:  expected,
	}
}

func (g *Generator) operand() int {
	return g.min + g.rnd.Intn(g.max-g.min+1)
}
