package palette

import (
	"errors"
	"fmt"
)

// ErrBucketLookup is returned when a value cannot be placed between two
// adjacent buckets. With a strictly increasing bucket table this only
// happens for negative values.
var ErrBucketLookup = errors.New("palette: bucket lookup failure")

// ZeroPolicy selects how values below the smallest non-zero bucket are
// bucketized.
type ZeroPolicy int

const (
	// ZeroCorrected maps values below the second bucket to the first
	// (smallest) bucket.
	ZeroCorrected ZeroPolicy = iota
	// ZeroLegacy maps values below the second bucket to the second bucket,
	// so sparsely populated cells still render with a visible colour.
	ZeroLegacy
)

func (z ZeroPolicy) String() string {
	switch z {
	case ZeroCorrected:
		return "corrected"
	case ZeroLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("ZeroPolicy(%d)", int(z))
	}
}

// Bucketizer maps a numeric value back to the colour of its nearest bucket
// in a strictly increasing palette.
type Bucketizer struct {
	palette Palette
	policy  ZeroPolicy
}

// NewBucketizer returns a Bucketizer over p. The palette needs at least two
// entries with strictly increasing values.
func NewBucketizer(p Palette, policy ZeroPolicy) (*Bucketizer, error) {
	if p.Len() < 2 {
		return nil, fmt.Errorf("palette: %s needs at least two buckets", p.Name())
	}
	if !p.Increasing() {
		return nil, fmt.Errorf("palette: %s buckets are not strictly increasing", p.Name())
	}
	return &Bucketizer{
		palette: p,
		policy:  policy,
	}, nil
}

// Palette returns the bucket table
func (b *Bucketizer) Palette() Palette {
	return b.palette
}

// Policy returns the zero policy in use
func (b *Bucketizer) Policy() ZeroPolicy {
	return b.policy
}

// Bucketize returns the bucket nearest to v. When v lies between two
// buckets the lower one wins a tie.
func (b *Bucketizer) Bucketize(v int) (Entry, error) {
	e := b.palette.entries
	last := len(e) - 1

	switch {
	case v >= e[0].Value && v < e[1].Value:
		if b.policy == ZeroLegacy {
			return e[1], nil
		}
		return e[0], nil
	case v >= e[last].Value:
		return e[last], nil
	}

	for i := 1; i < last; i++ {
		low, high := e[i], e[i+1]
		if v >= low.Value && v < high.Value {
			if v-low.Value <= high.Value-v {
				return low, nil
			}
			return high, nil
		}
	}

	return Entry{}, fmt.Errorf("%w: %d not within %s buckets", ErrBucketLookup, v, b.palette.Name())
}
