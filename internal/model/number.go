package model

import "github.com/shopspring/decimal"

// Number is a nullable decimal. Valid == false means the value is absent.
type Number = decimal.NullDecimal

// Null is the absent Number.
var Null = Number{}

// Int returns a valid Number holding n.
func Int(n int64) Number {
	return Number{Decimal: decimal.NewFromInt(n), Valid: true}
}

// Dec returns a valid Number holding d.
func Dec(d decimal.Decimal) Number {
	return Number{Decimal: d, Valid: true}
}

// Sub returns a - b. A null operand yields null.
func Sub(a, b Number) Number {
	if !a.Valid || !b.Valid {
		return Null
	}
	return Dec(a.Decimal.Sub(b.Decimal))
}

// Add returns a + b, skipping null operands. Null + null is null.
// Used when collapsing duplicate rows of a single source.
func Add(a, b Number) Number {
	switch {
	case !a.Valid:
		return b
	case !b.Valid:
		return a
	}
	return Dec(a.Decimal.Add(b.Decimal))
}

// SumAsZero adds all values treating null as zero. The result is always valid.
func SumAsZero(values ...Number) Number {
	total := decimal.Zero
	for _, v := range values {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return Dec(total)
}
