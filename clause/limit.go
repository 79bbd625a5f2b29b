package clause

import "strconv"

// Limit represents a limit clause, a negative Limit means no limit
type Limit struct {
	Limit  *int
	Offset int
}

// Build constructs the limit clause, numbers are written inline
func (limit Limit) Build(builder Builder) {
	hasLimit := limit.Limit != nil && *limit.Limit >= 0
	if hasLimit {
		builder.WriteString("limit ")
		builder.WriteString(strconv.Itoa(*limit.Limit))
	}

	if limit.Offset > 0 {
		if hasLimit {
			builder.WriteByte(' ')
		}
		builder.WriteString("offset ")
		builder.WriteString(strconv.Itoa(limit.Offset))
	}
}

