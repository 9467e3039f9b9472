package difficulty

import "github.com/haythammda/Gift-Storm/internal/rng"

// Variant is an endless-mode enemy modifier.
type Variant string

const (
	VariantElite    Variant = "elite"
	VariantDasher   Variant = "dasher"
	VariantShielded Variant = "shielded"
	VariantFreezer  Variant = "freezer"
	VariantSplitter Variant = "splitter"
	VariantArmored  Variant = "armored"
	VariantFast     Variant = "fast"
	VariantNormal   Variant = "normal"
)

type variantBucket struct {
	variant Variant
	after   float64
	chance  float64
}

// Declaration order decides ties; the first bucket whose range holds the
// roll wins.
var variantBuckets = []variantBucket{
	{VariantElite, 120, 0.08},
	{VariantDasher, 90, 0.08},
	{VariantShielded, 75, 0.08},
	{VariantFreezer, 60, 0.10},
	{VariantSplitter, 45, 0.10},
	{VariantArmored, 30, 0.12},
	{VariantFast, 15, 0.15},
}

// RollVariant draws one roll and walks the unlocked buckets cumulatively.
func RollVariant(elapsed float64, src rng.Source) Variant {
	roll := src.Float64()
	cursor := 0.0
	for _, b := range variantBuckets {
		if elapsed < b.after {
			continue
		}
		cursor += b.chance
		if roll < cursor {
			return b.variant
		}
	}
	return VariantNormal
}

// EnemyTypeID maps a variant to its catalog enemy type. Elite and dasher
// are modifiers on the basic and fast children.
func EnemyTypeID(v Variant) string {
	switch v {
	case VariantElite:
		return "normal"
	case VariantDasher:
		return "fast"
	case VariantShielded:
		return "shielder"
	default:
		return string(v)
	}
}
