package pgrepo

import (
	"ecommerce-backend/internal/domain"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numericToDecimal converts without a float round trip.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil || n.NaN {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// validUUID accepts the textual forms Postgres' uuid input does. uuid.Parse
// also takes the 45-byte urn:uuid: form, which Postgres rejects.
func validUUID(s string) bool {
	if len(s) == 45 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// validUUIDs drops anything that is not a UUID and canonicalizes the rest,
// so only forms Postgres accepts reach a uuid[] cast.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			out = append(out, u.String())
		}
	}
	return out
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and wraps anything else.
func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return errors.Wrap(err, op)
}
