package domain

// Store 领域模型 (maps to the stores table)
// Timezone is an IANA identifier; empty means the store reports in UTC.
type Store struct {
	// 主键
	ID int64 `db:"store_id"` // BIGINT, PRIMARY KEY

	// IANA timezone identifier, e.g. "America/Chicago"
	Timezone string `db:"timezone_str"` // VARCHAR(64), nullable -> ""
}
