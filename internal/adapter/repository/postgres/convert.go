package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func countersFromRow(balance, added, removed, pulled pgtype.Numeric) domain.Counters {
	return domain.Counters{
		Balance:       numericToDecimal(balance),
		TokensAdded:   numericToDecimal(added),
		TokensRemoved: numericToDecimal(removed),
		TokensPulled:  numericToDecimal(pulled),
	}
}

func linksFromRow(current, previous pgtype.Text) domain.DailyLinks {
	return domain.DailyLinks{
		CurrentDailyID:  textToPtr(current),
		PreviousDailyID: textToPtr(previous),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
